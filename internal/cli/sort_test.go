package cli

import (
	"testing"
	"time"

	"github.com/ewu-ics-cal/ewucal/internal/event"
)

func TestSortEntries(t *testing.T) {
	d := func(day int) event.Date { return event.Date{Year: 2024, Month: time.October, Day: day} }
	end := d(8)

	base := []event.Entry{
		{StartDate: d(10), EventText: "b holiday"},
		{StartDate: d(3), EndDate: &end, EventText: "Mid-term Examinations"},
		{StartDate: d(3), EventText: "a deadline"},
	}

	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{"page order untouched", SortByPage, []string{"b holiday", "Mid-term Examinations", "a deadline"}},
		{"date, shorter range first", SortByDate, []string{"a deadline", "Mid-term Examinations", "b holiday"}},
		{"text case-insensitive", SortByText, []string{"a deadline", "b holiday", "Mid-term Examinations"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := append([]event.Entry(nil), base...)
			sortEntries(entries, tt.order)
			for i, want := range tt.want {
				if entries[i].EventText != want {
					t.Errorf("entries[%d] = %q, want %q", i, entries[i].EventText, want)
				}
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    SortOrder
		wantErr bool
	}{
		{"", SortByPage, false},
		{"DATE", SortByDate, false},
		{" text ", SortByText, false},
		{"state", "", true},
	}

	for _, tt := range tests {
		got, err := parseSortOrder(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSortOrder(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseSortOrder(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
