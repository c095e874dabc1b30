package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/gacor/internal/game"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortBySource   SortOrder = "source"
	SortByTitle    SortOrder = "title"
	SortByProvider SortOrder = "provider"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortBySource, SortByTitle, SortByProvider:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'source', 'title' or 'provider')", s)
	}
}

// sortRecords sorts records in place. SortBySource keeps the page order.
func sortRecords(records []game.Record, order SortOrder) {
	switch order {
	case SortByTitle:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].Title) < strings.ToLower(records[j].Title)
		})
	case SortByProvider:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Provider != records[j].Provider {
				return strings.ToLower(records[i].Provider) < strings.ToLower(records[j].Provider)
			}
			// Same provider keeps page order
			return false
		})
	}
}
