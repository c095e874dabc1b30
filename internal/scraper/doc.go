// Package scraper fetches provider RTP pages and extracts game tiles from them.
//
// Extraction is a lightweight pattern scan over <img> tags rather than a full HTML
// parse: the upstream pages are script-heavy and change often, and only the tag
// attributes matter. A tile is any image whose alt text contains "Persentase RTP".
// Tiles are deduplicated by their absolute image URL, keeping document order.
// Extraction never fails; bad markup yields fewer records. A goquery-based
// extractor with the same rules is available for pages the scanner handles poorly.
package scraper
