package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ewu-ics-cal/ewucal/internal/calendar"
	"github.com/ewu-ics-cal/ewucal/internal/extract"
	"github.com/ewu-ics-cal/ewucal/internal/notifier"
	"github.com/ewu-ics-cal/ewucal/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// parseFormat validates a --format flag value
func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// SkippedRow is a row dropped by lenient extraction
type SkippedRow struct {
	Index    int    `json:"index"`
	DateText string `json:"date_text"`
	Error    string `json:"error"`
}

// EntriesResult contains the entries of one calendar
type EntriesResult struct {
	Path    string          `json:"path"`
	Record  calendar.Record `json:"calendar"`
	Filter  string          `json:"filter,omitempty"`
	Skipped []SkippedRow    `json:"skipped,omitempty"`
}

// skippedRows converts lenient extraction errors for output
func skippedRows(errs []*extract.RowError) []SkippedRow {
	rows := make([]SkippedRow, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, SkippedRow{Index: e.Index, DateText: e.DateText, Error: e.Err.Error()})
	}
	return rows
}

// WatchResult contains the outcome of one watch run
type WatchResult struct {
	CheckedAt time.Time         `json:"checked_at"`
	Checked   int               `json:"checked"`
	Failed    int               `json:"failed"`
	Changes   []notifier.Change `json:"changes"`
	Refreshed bool              `json:"refreshed,omitempty"`
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteListings writes the calendar index in the specified format
func WriteListings(w io.Writer, listings []scraper.Listing, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, listings)
	case FormatText:
		return writeListingsText(w, listings)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeListingsText(w io.Writer, listings []scraper.Listing) error {
	if len(listings) == 0 {
		fmt.Fprintln(w, "No calendars found.")
		return nil
	}

	total := 0
	for _, listing := range listings {
		fmt.Fprintf(w, "\n%s\n", listing.Year)
		for _, program := range listing.Programs {
			fmt.Fprintf(w, "  %s (%d):\n", program.ProgramType, len(program.Calendars))
			for _, cal := range program.Calendars {
				fmt.Fprintf(w, "    %s  %s\n", cal.Name, cal.URL)
				total++
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d calendars across %d years\n", total, len(listings))
	return nil
}

// WriteEntries writes a calendar's entries in the specified format
func WriteEntries(w io.Writer, result *EntriesResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeEntriesText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeEntriesText(w io.Writer, result *EntriesResult, verbose bool) error {
	rec := result.Record
	fmt.Fprintf(w, "%s (revised %s)\n", rec.Title, rec.RevisionDate)
	if result.Filter != "" {
		fmt.Fprintf(w, "Filter: %s\n", result.Filter)
	}
	fmt.Fprintln(w)

	if len(rec.Entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
	}
	for _, entry := range rec.Entries {
		when := entry.StartDate.String()
		if entry.EndDate != nil {
			when += " - " + entry.EndDate.String()
		}
		fmt.Fprintf(w, "%-23s %s\n", when, entry.EventText)
		if verbose {
			fmt.Fprintf(w, "%-23s ID: %s\n", "", entry.ID)
		}
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped %d rows:\n", len(result.Skipped))
		for _, row := range result.Skipped {
			fmt.Fprintf(w, "  row %d %q: %s\n", row.Index, row.DateText, row.Error)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d entries\n", len(rec.Entries))
	return nil
}

// WriteWatch writes a watch result in the specified format
func WriteWatch(w io.Writer, result *WatchResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeWatchText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeWatchText(w io.Writer, result *WatchResult) error {
	if result.Refreshed {
		fmt.Fprintln(w, "Snapshot refreshed successfully.")
		return nil
	}

	if len(result.Changes) == 0 {
		fmt.Fprintln(w, "No revised calendars found.")
	}
	for _, c := range result.Changes {
		label := "REVISED"
		if c.IsNew() {
			label = "NEW"
		}
		fmt.Fprintf(w, "%s: %s %d %s (revised %s)\n", label, c.Semester, c.Year, c.Name, c.Current)
		fmt.Fprintf(w, "     %s\n", c.Path)
	}

	fmt.Fprintf(w, "\nChecked: %d calendars", result.Checked)
	if result.Failed > 0 {
		fmt.Fprintf(w, ", %d failed", result.Failed)
	}
	fmt.Fprintln(w)
	return nil
}
