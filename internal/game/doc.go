// Package game defines the record emitted for each game tile scraped from a
// provider's RTP page.
//
// Records are built fresh for every scrape and are never persisted. The ID joins the
// provider key with the file name of the tile image, which is stable enough for
// client-side display but not guaranteed unique across providers.
package game
