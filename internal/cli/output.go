package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/gacor/internal/game"
	"github.com/pfrederiksen/gacor/internal/provider"
	"github.com/pfrederiksen/gacor/internal/scraper"
	"github.com/pfrederiksen/gacor/internal/server"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time                `json:"checked_at"`
	Providers  []string                 `json:"providers"`
	Items      []game.Record            `json:"items"`
	ItemCount  int                      `json:"item_count"`
	ByProvider map[string][]game.Record `json:"by_provider,omitempty"`
	Failures   map[string]string        `json:"failures,omitempty"`
}

// NewOutputResult flattens scrape results into one output, keeping provider order.
func NewOutputResult(results []*scraper.Result, checkedAt time.Time) *OutputResult {
	out := &OutputResult{
		CheckedAt:  checkedAt,
		Providers:  make([]string, 0, len(results)),
		Items:      make([]game.Record, 0),
		ByProvider: make(map[string][]game.Record),
	}

	for _, res := range results {
		key := res.Provider.Key
		out.Providers = append(out.Providers, key)

		if res.Err != nil {
			if out.Failures == nil {
				out.Failures = make(map[string]string)
			}
			out.Failures[key] = res.Err.Error()
			continue
		}

		out.Items = append(out.Items, res.Items...)
		if len(res.Items) > 0 {
			out.ByProvider[key] = res.Items
		}
	}

	out.ItemCount = len(out.Items)
	return out
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.ItemCount == 0 {
		fmt.Fprintln(w, "No game tiles found.")
	} else if len(result.Providers) > 1 {
		// Group by provider label for multi-provider scrapes
		byLabel := make(map[string][]game.Record)
		for _, item := range result.Items {
			byLabel[item.Provider] = append(byLabel[item.Provider], item)
		}
		labels := make([]string, 0, len(byLabel))
		for label := range byLabel {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		for _, label := range labels {
			items := byLabel[label]
			fmt.Fprintf(w, "\n%s (%d games):\n", label, len(items))
			for _, item := range items {
				writeRecord(w, "  ", item, verbose)
			}
		}
		fmt.Fprintf(w, "\nTotal: %d games across %d providers\n", result.ItemCount, len(byLabel))
	} else {
		for _, item := range result.Items {
			writeRecord(w, "", item, verbose)
		}
		fmt.Fprintf(w, "\nTotal: %d games\n", result.ItemCount)
	}

	if len(result.Failures) > 0 {
		keys := make([]string, 0, len(result.Failures))
		for key := range result.Failures {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		fmt.Fprintf(w, "\nFailed (%d):\n", len(keys))
		for _, key := range keys {
			fmt.Fprintf(w, "  %s: %s\n", key, result.Failures[key])
		}
	}

	return nil
}

func writeRecord(w io.Writer, indent string, item game.Record, verbose bool) {
	fmt.Fprintf(w, "%s%s\n", indent, item.Title)
	if verbose {
		fmt.Fprintf(w, "%s     ID: %s\n", indent, item.ID)
		fmt.Fprintf(w, "%s     Image: %s\n", indent, item.Image)
	}
}

// WriteProviders writes the provider table
func WriteProviders(w io.Writer, providers []provider.Config, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, server.ProviderEntries(providers))
	case FormatText:
		for _, p := range providers {
			source := p.URL
			if source == "" {
				source = "(aggregated by client)"
			}
			fmt.Fprintf(w, "%-12s %-16s %s\n", p.Key, p.Label, source)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
