package scraper

import (
	"net/url"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/pfrederiksen/gacor/internal/game"
)

// ExtractFunc turns a fetched page into game records.
type ExtractFunc func(html, baseURL, providerKey, providerLabel string) []game.Record

// space is the whitespace class used by the tile and title patterns. RE2's \s is
// ASCII-only; this also covers NBSP and the other Zs spaces, BOM and the Unicode
// line separators.
const space = `[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]`

var (
	imgTagPattern = regexp.MustCompile(`(?i)<img\b[^>]*>`)
	tilePattern   = regexp.MustCompile(`(?i)Persentase` + space + `+RTP`)
	titlePrefix   = regexp.MustCompile(`(?i)^Persentase` + space + `+RTP` + space + `+untuk` + space + `+`)
	titleSuffix   = regexp.MustCompile(`(?i)` + space + `+oleh` + space + `+[^\n\r\x{2028}\x{2029}]+$`)

	attrPatterns sync.Map // attribute name -> *regexp.Regexp
)

// attrPattern compiles the matcher for one attribute name. The name must not be
// preceded by a word character or "-", so "src" never matches "data-src".
func attrPattern(name string) *regexp.Regexp {
	if re, ok := attrPatterns.Load(name); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)(?:^|[^\w-])` + regexp.QuoteMeta(name) + `\s*=\s*["']([^"']+)["']`)
	attrPatterns.Store(name, re)
	return re
}

// Attribute returns the quoted value of the named attribute in tag, or "" when
// the attribute is missing or empty.
func Attribute(tag, name string) string {
	if name == "" {
		return ""
	}
	m := attrPattern(name).FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	return m[1]
}

// CleanTitle strips the "Persentase RTP untuk" lead-in and the trailing
// "oleh <studio>" clause from a tile's alt text.
func CleanTitle(alt string) string {
	t := strings.TrimFunc(alt, isSpace)
	t = titlePrefix.ReplaceAllString(t, "")
	t = titleSuffix.ReplaceAllString(t, "")
	return strings.TrimFunc(t, isSpace)
}

// isSpace is the rune form of the space class.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\uFEFF', '\u2028', '\u2029':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// IsTile reports whether alt text marks an image as a game tile.
func IsTile(alt string) bool {
	return tilePattern.MatchString(alt)
}

// ResolveURL resolves candidate against base. If either cannot be parsed, or base
// is not absolute, candidate is returned unchanged. Like a browser, it drops
// surrounding control characters and embedded tabs or newlines, and keeps a "%"
// that does not start a valid escape as a literal.
func ResolveURL(candidate, base string) string {
	if strings.Contains(candidate, strayPercent) || strings.Contains(base, strayPercent) {
		return candidate
	}

	b, err := url.Parse(prepareURL(base))
	if err != nil || !b.IsAbs() || b.Host == "" || strings.Contains(b.Host, strayPercent) {
		return candidate
	}
	ref, err := url.Parse(prepareURL(candidate))
	if err != nil || strings.Contains(ref.Host, strayPercent) {
		return candidate
	}
	return strings.ReplaceAll(b.ResolveReference(ref).String(), strayPercent, "%")
}

// strayPercent stands in for a "%" that net/url would reject. It only uses
// unreserved characters, so it survives parsing and re-encoding untouched.
const strayPercent = "gacor-pct-7f"

var urlNoise = strings.NewReplacer("\t", "", "\n", "", "\r", "")

func prepareURL(raw string) string {
	raw = strings.TrimFunc(raw, func(r rune) bool { return r <= ' ' })
	raw = urlNoise.Replace(raw)

	if !strings.Contains(raw, "%") {
		return raw
	}
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '%' && !(i+2 < len(raw) && isHex(raw[i+1]) && isHex(raw[i+2])) {
			sb.WriteString(strayPercent)
			continue
		}
		sb.WriteByte(raw[i])
	}
	return sb.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// collector applies the tile rules shared by every extractor.
type collector struct {
	baseURL string
	key     string
	label   string
	seen    map[string]bool
	items   []game.Record
}

func newCollector(baseURL, providerKey, providerLabel string) *collector {
	return &collector{
		baseURL: baseURL,
		key:     providerKey,
		label:   providerLabel,
		seen:    make(map[string]bool),
		items:   make([]game.Record, 0),
	}
}

func (c *collector) add(src, alt string) {
	if src == "" || !IsTile(alt) {
		return
	}

	img := ResolveURL(src, c.baseURL)
	if c.seen[img] {
		return
	}
	c.seen[img] = true

	title := CleanTitle(alt)
	if title == "" {
		return
	}

	c.items = append(c.items, game.NewRecord(c.key, c.label, title, img, alt))
}

// ExtractGames scans html for <img> tags and returns one record per game tile in
// document order. It never fails and returns an empty, non-nil slice when nothing
// qualifies.
func ExtractGames(html, baseURL, providerKey, providerLabel string) []game.Record {
	c := newCollector(baseURL, providerKey, providerLabel)
	for _, tag := range imgTagPattern.FindAllString(html, -1) {
		c.add(Attribute(tag, "src"), Attribute(tag, "alt"))
	}
	return c.items
}
