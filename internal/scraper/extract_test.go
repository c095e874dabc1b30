package scraper

import (
	"strings"
	"testing"
)

func TestAttribute(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		attr     string
		expected string
	}{
		{"double quotes", `<img src="/a.png" alt="x">`, "src", "/a.png"},
		{"single quotes", `<img src='/a.png'>`, "src", "/a.png"},
		{"case insensitive name", `<IMG SRC="/a.png">`, "src", "/a.png"},
		{"spaces around equals", `<img src = "/a.png">`, "src", "/a.png"},
		{"data-src not matched as src", `<img data-src="/lazy.png">`, "src", ""},
		{"src after data-src", `<img data-src="/lazy.png" src="/real.png">`, "src", "/real.png"},
		{"prefixed name not matched", `<img xsrc="/x.png">`, "src", ""},
		{"missing attribute", `<img src="/a.png">`, "alt", ""},
		{"empty value", `<img alt="" src="/a.png">`, "alt", ""},
		{"unquoted value ignored", `<img src=/a.png>`, "src", ""},
		{"alt with spaces", `<img alt="Persentase RTP untuk Gates of Olympus oleh Pragmatic">`, "alt", "Persentase RTP untuk Gates of Olympus oleh Pragmatic"},
		{"newline separated", "<img\nsrc=\"/n.png\">", "src", "/n.png"},
		{"empty name", `<img src="/a.png">`, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Attribute(tt.tag, tt.attr); got != tt.expected {
				t.Errorf("Attribute(%q, %q) = %q, want %q", tt.tag, tt.attr, got, tt.expected)
			}
		})
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		alt      string
		expected string
	}{
		{"Persentase RTP untuk Sweet Bonanza oleh Pragmatic", "Sweet Bonanza"},
		{"  persentase  rtp  UNTUK  Mahjong Ways 2 OLEH PGSoft ", "Mahjong Ways 2"},
		{"Persentase RTP untuk Starlight Princess", "Starlight Princess"},
		{"Gates of Olympus oleh Pragmatic Play", "Gates of Olympus"},
		{"Wild West Gold", "Wild West Gold"},
		{"Persentase RTP untuk ", "Persentase RTP untuk"},
		{"Persentase RTP untuk oleh Pragmatic", "oleh Pragmatic"},
		{"Persentase\u00a0RTP untuk Gates of Olympus oleh Pragmatic", "Gates of Olympus"},
		{"Persentase RTP untuk Zeus oleh\u00a0Pragmatic", "Zeus"},
		{"Persentase RTP\u3000untuk Koi Gate\u2003oleh Habanero", "Koi Gate"},
		{"\ufeff\u00a0Wild West Gold\u00a0", "Wild West Gold"},
		{"Fortune Tiger oleh PG\nSoft", "Fortune Tiger oleh PG\nSoft"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.alt, func(t *testing.T) {
			if got := CleanTitle(tt.alt); got != tt.expected {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.alt, got, tt.expected)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
		base      string
		expected  string
	}{
		{"root relative", "/a.png", "https://example.com/", "https://example.com/a.png"},
		{"path relative", "img/a.png", "https://pyw.maxrtpnew.com/pgsoft.html", "https://pyw.maxrtpnew.com/img/a.png"},
		{"parent relative", "../a.png", "https://example.com/x/y/page.html", "https://example.com/x/a.png"},
		{"protocol relative", "//cdn.example.com/a.png", "https://example.com/", "https://cdn.example.com/a.png"},
		{"already absolute", "https://cdn.example.com/a.png", "https://example.com/", "https://cdn.example.com/a.png"},
		{"invalid base", "not a url", "not a base", "not a url"},
		{"empty base", "/a.png", "", "/a.png"},
		{"malformed candidate", "http://[::1", "https://example.com/", "http://[::1"},
		{"stray percent kept literal", "/a%zz.png", "https://example.com/", "https://example.com/a%zz.png"},
		{"trailing percent", "img/100%", "https://example.com/x/", "https://example.com/x/img/100%"},
		{"valid escape untouched", "/a%20b.png", "https://example.com/", "https://example.com/a%20b.png"},
		{"stray percent in query", "/a.png?v=5%", "https://example.com/", "https://example.com/a.png?v=5%"},
		{"stray percent in host", "//cdn%zz.example.com/a.png", "https://example.com/", "//cdn%zz.example.com/a.png"},
		{"surrounding whitespace", " \t/a.png\n ", "https://example.com/", "https://example.com/a.png"},
		{"embedded newline", "/img/\na.png", "https://example.com/", "https://example.com/img/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(tt.candidate, tt.base); got != tt.expected {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.candidate, tt.base, got, tt.expected)
			}
		})
	}
}

func TestExtractGames_Scenario(t *testing.T) {
	html := `<img src="/a.png" alt="Persentase RTP untuk Sweet Bonanza oleh Pragmatic">`

	items := ExtractGames(html, "https://example.com/", "pragmatic", "Pragmatic")
	if len(items) != 1 {
		t.Fatalf("ExtractGames() returned %d items, want 1", len(items))
	}

	got := items[0]
	if got.ID != "pragmatic:a.png" {
		t.Errorf("ID = %q, want pragmatic:a.png", got.ID)
	}
	if got.Provider != "Pragmatic" {
		t.Errorf("Provider = %q, want Pragmatic", got.Provider)
	}
	if got.Title != "Sweet Bonanza" {
		t.Errorf("Title = %q, want Sweet Bonanza", got.Title)
	}
	if got.Image != "https://example.com/a.png" {
		t.Errorf("Image = %q, want https://example.com/a.png", got.Image)
	}
	if got.RawAlt != "Persentase RTP untuk Sweet Bonanza oleh Pragmatic" {
		t.Errorf("RawAlt = %q", got.RawAlt)
	}
}

func TestExtractGames_EdgeCases(t *testing.T) {
	const base = "https://pyw.maxrtpnew.com/index.html"

	tests := []struct {
		name       string
		html       string
		wantTitles []string
	}{
		{
			name: "non-tile images are skipped",
			html: `
				<img src="/logo.png" alt="Logo">
				<img src="/banner.jpg">
				<img src="/g1.png" alt="Persentase RTP untuk Aztec Gems oleh Pragmatic">
			`,
			wantTitles: []string{"Aztec Gems"},
		},
		{
			name:       "missing or empty alt is skipped",
			html:       `<img src="/g1.png"><img src="/g2.png" alt="">`,
			wantTitles: nil,
		},
		{
			name:       "missing src is skipped",
			html:       `<img alt="Persentase RTP untuk Ghost" data-src="/ghost.png">`,
			wantTitles: nil,
		},
		{
			name: "duplicates resolved to the same url keep the first",
			html: `
				<img src="/g/a.png" alt="Persentase RTP untuk First oleh X">
				<img src="https://pyw.maxrtpnew.com/g/a.png" alt="Persentase RTP untuk Second oleh X">
				<img src="g/a.png" alt="Persentase RTP untuk Third oleh X">
			`,
			wantTitles: []string{"First"},
		},
		{
			name: "document order preserved",
			html: `
				<div><img src="/c.png" alt="Persentase RTP untuk Charlie"></div>
				<div><img src="/a.png" alt="Persentase RTP untuk Alpha"></div>
				<div><img src="/b.png" alt="Persentase RTP untuk Bravo"></div>
			`,
			wantTitles: []string{"Charlie", "Alpha", "Bravo"},
		},
		{
			name:       "data-src placeholder pattern uses real src",
			html:       `<img data-src="/lazy.png" src="/real.png" alt="Persentase RTP untuk Lazy Load oleh X">`,
			wantTitles: []string{"Lazy Load"},
		},
		{
			name:       "uppercase tag and phrase",
			html:       `<IMG SRC="/u.png" ALT="PERSENTASE RTP UNTUK Big Bass OLEH Reel Kingdom">`,
			wantTitles: []string{"Big Bass"},
		},
		{
			name: "non-breaking spaces in the marker and the studio clause",
			html: "<img src=\"/g.png\" alt=\"Persentase\u00a0RTP untuk Gates of Olympus oleh Pragmatic\">" +
				"<img src=\"/s.png\" alt=\"Persentase RTP untuk Starlight Princess\">" +
				"<img src=\"/z.png\" alt=\"Persentase RTP untuk Zeus oleh\u00a0Pragmatic\">",
			wantTitles: []string{"Gates of Olympus", "Starlight Princess", "Zeus"},
		},
		{
			name:       "stray percent in src still resolves",
			html:       `<img src="/b%zz.png" alt="Persentase RTP untuk Bonanza">`,
			wantTitles: []string{"Bonanza"},
		},
		{
			name:       "unclosed tag yields nothing",
			html:       `<img src="/x.png" alt="Persentase RTP untuk Broken"`,
			wantTitles: nil,
		},
		{
			name:       "longer tag names are not images",
			html:       `<imgx src="/x.png" alt="Persentase RTP untuk Nope">`,
			wantTitles: nil,
		},
		{
			name:       "empty document",
			html:       "",
			wantTitles: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ExtractGames(tt.html, base, "pragmatic", "Pragmatic")
			if items == nil {
				t.Fatal("ExtractGames() returned nil, want empty slice")
			}

			if len(items) != len(tt.wantTitles) {
				t.Fatalf("ExtractGames() returned %d items, want %d (%+v)", len(items), len(tt.wantTitles), items)
			}
			for i, want := range tt.wantTitles {
				if items[i].Title != want {
					t.Errorf("items[%d].Title = %q, want %q", i, items[i].Title, want)
				}
			}
		})
	}
}

func TestExtractGames_OnlyTilesEmitted(t *testing.T) {
	html := strings.Repeat(`<img src="/deco.png" alt="decoration">`, 5) +
		`<img src="/t1.png" alt="Persentase RTP untuk One">` +
		`<img src="/t2.png" alt="persentase   rtp untuk Two oleh Z">`

	items := ExtractGames(html, "https://example.com/", "k", "K")
	for _, item := range items {
		if !IsTile(item.RawAlt) {
			t.Errorf("record %q came from a non-tile alt %q", item.ID, item.RawAlt)
		}
		if item.Title == "" {
			t.Errorf("record %q has an empty title", item.ID)
		}
		if !strings.HasPrefix(item.Image, "https://example.com/") {
			t.Errorf("record %q image %q is not absolute", item.ID, item.Image)
		}
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
}
