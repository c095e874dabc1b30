package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/gacor/internal/game"
)

const (
	ParserPattern = "pattern"
	ParserDOM     = "dom"
)

// ExtractGamesDOM applies the same tile rules as ExtractGames but reads attributes
// through a goquery document, so entity-encoded alt text is decoded. A document
// that cannot be parsed yields no records.
func ExtractGamesDOM(html, baseURL, providerKey, providerLabel string) []game.Record {
	c := newCollector(baseURL, providerKey, providerLabel)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return c.items
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		alt, _ := sel.Attr("alt")
		c.add(src, alt)
	})

	return c.items
}

// ExtractorFor returns the extractor registered under name. An empty name selects
// the pattern scanner.
func ExtractorFor(name string) (ExtractFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ParserPattern:
		return ExtractGames, nil
	case ParserDOM:
		return ExtractGamesDOM, nil
	default:
		return nil, fmt.Errorf("unknown parser: %s (must be '%s' or '%s')", name, ParserPattern, ParserDOM)
	}
}
