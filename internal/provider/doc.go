// Package provider holds the static table of game providers served by gacor.
//
// Each provider maps a lowercase key to a display label and the upstream RTP page
// it is scraped from. The "all" entry has no URL: it tells callers to aggregate
// per-provider results on the client instead of fetching server-side. The table is
// built at package init and never modified; accessors hand out copies.
package provider
