package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ewu-ics-cal/ewucal/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByPage SortOrder = "page"
	SortByDate SortOrder = "date"
	SortByText SortOrder = "text"
)

// parseSortOrder validates a --sort flag value
func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByPage, SortByDate, SortByText:
		return order, nil
	case "":
		return SortByPage, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'page', 'date' or 'text')", s)
	}
}

// sortEntries sorts entries in place. Page order leaves them untouched.
func sortEntries(entries []event.Entry, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(entries, func(i, j int) bool {
			return compareByDate(entries[i], entries[j])
		})
	case SortByText:
		sort.SliceStable(entries, func(i, j int) bool {
			ti, tj := strings.ToLower(entries[i].EventText), strings.ToLower(entries[j].EventText)
			if ti != tj {
				return ti < tj
			}
			// If texts are equal, sort by date
			return compareByDate(entries[i], entries[j])
		})
	}
}

// compareByDate orders by start date, then by last date so shorter ranges come first
func compareByDate(i, j event.Entry) bool {
	if i.StartDate != j.StartDate {
		return i.StartDate.Before(j.StartDate)
	}
	return i.LastDate().Before(j.LastDate())
}
