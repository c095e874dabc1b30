package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pfrederiksen/gacor/internal/game"
	"github.com/pfrederiksen/gacor/internal/provider"
	"github.com/pfrederiksen/gacor/internal/scraper"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"

	cacheProviders = "s-maxage=3600, stale-while-revalidate=86400"
	cacheItems     = "s-maxage=60, stale-while-revalidate=600"
	cacheNoStore   = "no-store"

	modeAllClient = "all-client"

	msgAllClient        = "Gunakan client untuk memanggil per-provider: /api/gacor?provider=pragmatic, pgsoft, dst."
	msgInvalidProvider  = "Provider tidak valid."
	msgFetchFailed      = "Gagal ambil/parse sumber (mungkin putus koneksi / diblok / timeout)."
	msgMethodNotAllowed = "Method not allowed"

	// Millisecond ISO-8601 in UTC, e.g. 2026-10-15T08:30:00.000Z
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// ProviderEntry is one row of the provider listing. URL is null for "all".
type ProviderEntry struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	URL   *string `json:"url"`
}

// ProvidersResponse answers provider=providers.
type ProvidersResponse struct {
	OK        bool            `json:"ok"`
	Providers []ProviderEntry `json:"providers"`
}

// AllClientResponse answers provider=all.
type AllClientResponse struct {
	OK      bool   `json:"ok"`
	Mode    string `json:"mode"`
	Message string `json:"message"`
}

// ItemsResponse carries the tiles scraped for one provider.
type ItemsResponse struct {
	OK        bool                `json:"ok"`
	Provider  string              `json:"provider"`
	Label     string              `json:"label"`
	Source    string              `json:"source"`
	Fetched   scraper.FetchStatus `json:"fetched"`
	UpdatedAt string              `json:"updatedAt"`
	Count     int                 `json:"count"`
	Items     []game.Record       `json:"items"`
}

// ErrorResponse is returned whenever ok is false.
type ErrorResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ProviderEntries converts provider configs to their JSON listing form.
func ProviderEntries(configs []provider.Config) []ProviderEntry {
	entries := make([]ProviderEntry, 0, len(configs))
	for _, c := range configs {
		entry := ProviderEntry{Key: c.Key, Label: c.Label}
		if c.Fetchable() {
			url := c.URL
			entry.URL = &url
		}
		entries = append(entries, entry)
	}
	return entries
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// writeJSON writes v with the shared headers. HTML escaping is disabled so titles
// such as "Queen & King" are emitted as-is.
func writeJSON(w http.ResponseWriter, status int, cacheControl string, v interface{}) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	writeJSON(w, status, cacheNoStore, ErrorResponse{
		OK:     false,
		Error:  message,
		Detail: detail,
	})
}
