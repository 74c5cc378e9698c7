// Package filter narrows calendar entries down by date window, text and weekday.
//
// Filters are built from CLI flags and applied to extracted entries before they
// are printed or exported:
//
//	f := filter.NewFilter()
//	f.Contains = []string{"exam"}
//	from, _ := filter.ParseDate("2024-10-01")
//	f.From = &from
//
//	entries = f.Apply(details.Entries)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/ewu-ics-cal/ewucal/internal/event"
)

// DateLayout is the layout accepted by ParseDate
const DateLayout = "2006-01-02"

// Filter represents entry filtering criteria
type Filter struct {
	// Date window, inclusive on both ends. An entry matches when any of its
	// days fall inside the window.
	From *event.Date `json:"from,omitempty"`
	To   *event.Date `json:"to,omitempty"`

	// Event text filtering (case-insensitive substring match, any of)
	Contains []string `json:"contains,omitempty"`

	// Only entries that touch a Saturday or Sunday
	WeekendsOnly bool `json:"weekends_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{
		Contains: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.From == nil &&
		f.To == nil &&
		len(f.Contains) == 0 &&
		!f.WeekendsOnly
}

// Matches checks if an entry matches all active filter criteria.
// An empty filter matches all entries.
func (f *Filter) Matches(entry event.Entry) bool {
	if f.IsEmpty() {
		return true
	}

	first, last := entry.StartDate, entry.LastDate()

	if f.From != nil && last.Before(*f.From) {
		return false
	}
	if f.To != nil && f.To.Before(first) {
		return false
	}

	if f.WeekendsOnly && !touchesWeekend(first, last) {
		return false
	}

	if len(f.Contains) > 0 {
		matched := false
		textLower := strings.ToLower(entry.EventText)
		for _, term := range f.Contains {
			if strings.Contains(textLower, strings.ToLower(term)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply returns the matching entries in their original order. An empty filter
// returns entries unchanged.
func (f *Filter) Apply(entries []event.Entry) []event.Entry {
	if f.IsEmpty() {
		return entries
	}

	filtered := make([]event.Entry, 0, len(entries))
	for _, entry := range entries {
		if f.Matches(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: 2024-10-01 | To: 2024-12-31 | Contains: exam | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.From != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.From))
	}
	if f.To != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.To))
	}
	if len(f.Contains) > 0 {
		parts = append(parts, fmt.Sprintf("Contains: %s", strings.Join(f.Contains, ", ")))
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}

	return strings.Join(parts, " | ")
}

// ParseDate parses a YYYY-MM-DD flag value
func ParseDate(s string) (event.Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return event.Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return event.DateOf(t), nil
}

// touchesWeekend reports whether any day in [first, last] is a Saturday or Sunday
func touchesWeekend(first, last event.Date) bool {
	day := first.Time()
	end := last.Time()
	for i := 0; !day.After(end) && i < 7; i++ {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return true
		}
		day = day.AddDate(0, 0, 1)
	}
	return false
}
