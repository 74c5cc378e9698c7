package extract

import (
	"errors"
	"testing"
	"time"

	"github.com/ewu-ics-cal/ewucal/internal/daterange"
	"github.com/ewu-ics-cal/ewucal/internal/event"
	"github.com/ewu-ics-cal/ewucal/internal/term"
)

var fall2024 = Metadata{
	Title:        "Undergraduate Academic Calendar",
	RevisionText: "Revised on {01 September 2024}",
	SemesterText: "Fall 2024",
}

func date(y int, m time.Month, d int) event.Date {
	return event.Date{Year: y, Month: m, Day: d}
}

func TestExtract_SingleRow(t *testing.T) {
	details, err := Extract(fall2024, []Row{{DateText: "September 23", EventText: "Add/Drop Ends"}})
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}

	if details.CalendarName != "Undergraduate Academic Calendar" {
		t.Errorf("CalendarName = %q", details.CalendarName)
	}
	if details.Semester != "Fall" || details.Year != 2024 {
		t.Errorf("Semester/Year = %q/%d, want Fall/2024", details.Semester, details.Year)
	}
	if details.RevisionDate != date(2024, time.September, 1) {
		t.Errorf("RevisionDate = %v, want 2024-09-01", details.RevisionDate)
	}
	if len(details.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(details.Entries))
	}

	e := details.Entries[0]
	if e.StartDate != date(2024, time.September, 23) {
		t.Errorf("StartDate = %v, want 2024-09-23", e.StartDate)
	}
	if e.EndDate != nil {
		t.Errorf("EndDate = %v, want nil", *e.EndDate)
	}
	if e.RevisionDate != details.RevisionDate {
		t.Errorf("entry RevisionDate = %v, want %v", e.RevisionDate, details.RevisionDate)
	}
	if e.EventText != "Add/Drop Ends" {
		t.Errorf("EventText = %q", e.EventText)
	}
}

func TestExtract_Rows(t *testing.T) {
	rows := []Row{
		{DateText: "Date", EventText: "Event"},
		{DateText: "", EventText: "orphan fragment"},
		{DateText: "  September 23 ", EventText: "Add/Drop\n   Ends"},
		{DateText: "March 08-14", EventText: "Spring Break"},
		{DateText: "Sept. 26-Oct. 01", EventText: "Mid-term\nExaminations"},
		{DateText: "December 30 - January 02", EventText: "Winter Recess"},
		{DateText: "January 15", EventText: "Grades Due"},
	}

	details, err := Extract(fall2024, rows)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}

	jan2 := date(2025, time.January, 2)
	mar14 := date(2025, time.March, 14)
	oct1 := date(2024, time.October, 1)
	want := []event.Entry{
		{StartDate: date(2024, time.September, 23), EventText: "Add/Drop Ends"},
		{StartDate: date(2025, time.March, 8), EndDate: &mar14, EventText: "Spring Break"},
		{StartDate: date(2024, time.September, 26), EndDate: &oct1, EventText: "Mid-term Examinations"},
		{StartDate: date(2024, time.December, 30), EndDate: &jan2, EventText: "Winter Recess"},
		{StartDate: date(2025, time.January, 15), EventText: "Grades Due"},
	}

	if len(details.Entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(details.Entries), len(want))
	}

	for i, w := range want {
		got := details.Entries[i]
		if got.StartDate != w.StartDate {
			t.Errorf("entry %d StartDate = %v, want %v", i, got.StartDate, w.StartDate)
		}
		switch {
		case (got.EndDate == nil) != (w.EndDate == nil):
			t.Errorf("entry %d EndDate = %v, want %v", i, got.EndDate, w.EndDate)
		case got.EndDate != nil && *got.EndDate != *w.EndDate:
			t.Errorf("entry %d EndDate = %v, want %v", i, *got.EndDate, *w.EndDate)
		}
		if got.EventText != w.EventText {
			t.Errorf("entry %d EventText = %q, want %q", i, got.EventText, w.EventText)
		}
		if got.RevisionDate != details.RevisionDate {
			t.Errorf("entry %d RevisionDate = %v, want shared %v", i, got.RevisionDate, details.RevisionDate)
		}
	}
}

func TestExtract_FailFast(t *testing.T) {
	tests := []struct {
		name      string
		rows      []Row
		wantErr   error
		wantIndex int
	}{
		{
			name:      "unparsable date after good rows",
			rows:      []Row{{DateText: "September 23", EventText: "ok"}, {DateText: "TBA", EventText: "bad"}},
			wantErr:   daterange.ErrDateParse,
			wantIndex: 1,
		},
		{
			name:      "three part range",
			rows:      []Row{{DateText: "May 1 - May 2 - May 3", EventText: "bad"}},
			wantErr:   daterange.ErrRangeCardinality,
			wantIndex: 0,
		},
		{
			name:      "start without month",
			rows:      []Row{{DateText: "September 23", EventText: "ok"}, {DateText: "08-14", EventText: "bad"}},
			wantErr:   ErrMissingMonth,
			wantIndex: 1,
		},
		{
			name:      "invalid start day",
			rows:      []Row{{DateText: "September 31", EventText: "bad"}},
			wantErr:   term.ErrInvalidDate,
			wantIndex: 0,
		},
		{
			name:      "invalid inherited end day",
			rows:      []Row{{DateText: "November 28-31", EventText: "bad"}},
			wantErr:   term.ErrInvalidDate,
			wantIndex: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details, err := Extract(fall2024, tt.rows)
			if err == nil {
				t.Fatal("Extract() expected error, got nil")
			}
			if details != nil {
				t.Errorf("Extract() returned %d entries alongside error", len(details.Entries))
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Extract() error = %v, want %v", err, tt.wantErr)
			}

			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("Extract() error %v is not a *RowError", err)
			}
			if rowErr.Index != tt.wantIndex {
				t.Errorf("RowError.Index = %d, want %d", rowErr.Index, tt.wantIndex)
			}
		})
	}
}

func TestExtract_MissingMetadata(t *testing.T) {
	rows := []Row{{DateText: "September 23", EventText: "Add/Drop Ends"}}

	tests := []struct {
		name string
		meta Metadata
	}{
		{"no revision stamp", Metadata{RevisionText: "Revised 01 September 2024", SemesterText: "Fall 2024"}},
		{"no semester", Metadata{RevisionText: "{01 September 2024}", SemesterText: "Academic Calendar"}},
		{"empty", Metadata{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.meta, rows)
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("Extract() error = %v, want ErrMissingField", err)
			}
		})
	}
}

func TestExtract_SingleMetadataBlob(t *testing.T) {
	meta := Metadata{
		Title:        "Graduate Calendar",
		RevisionText: "Academic Calendar SPRING 2025 (revised {5 Jan 2025})",
	}

	details, err := Extract(meta, []Row{{DateText: "Jan 10", EventText: "Classes Begin"}})
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if details.Semester != "SPRING" || details.Year != 2025 {
		t.Errorf("Semester/Year = %q/%d, want SPRING/2025", details.Semester, details.Year)
	}
	if details.RevisionDate != date(2025, time.January, 5) {
		t.Errorf("RevisionDate = %v, want 2025-01-05", details.RevisionDate)
	}
	if got := details.Entries[0].StartDate; got != date(2025, time.January, 10) {
		t.Errorf("StartDate = %v, want 2025-01-10", got)
	}
}

func TestExtract_NoRows(t *testing.T) {
	details, err := Extract(fall2024, nil)
	if err != nil {
		t.Fatalf("Extract() unexpected error: %v", err)
	}
	if details.Entries == nil || len(details.Entries) != 0 {
		t.Errorf("Entries = %v, want empty non-nil slice", details.Entries)
	}
}

func TestExtractLenient(t *testing.T) {
	rows := []Row{
		{DateText: "September 23", EventText: "Add/Drop Ends"},
		{DateText: "TBA", EventText: "Convocation"},
		{DateText: "", EventText: "skipped"},
		{DateText: "14", EventText: "Orphan day"},
		{DateText: "October 10", EventText: "Fee Deadline"},
	}

	res, err := ExtractLenient(fall2024, rows)
	if err != nil {
		t.Fatalf("ExtractLenient() unexpected error: %v", err)
	}

	if len(res.Details.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(res.Details.Entries))
	}
	if res.Details.Entries[1].EventText != "Fee Deadline" {
		t.Errorf("second entry = %q, want Fee Deadline", res.Details.Entries[1].EventText)
	}

	if len(res.Errors) != 2 {
		t.Fatalf("got %d row errors, want 2", len(res.Errors))
	}
	if res.Errors[0].Index != 1 || !errors.Is(res.Errors[0], daterange.ErrDateParse) {
		t.Errorf("first row error = %v, want row 1 ErrDateParse", res.Errors[0])
	}
	if res.Errors[1].Index != 3 || !errors.Is(res.Errors[1], ErrMissingMonth) {
		t.Errorf("second row error = %v, want row 3 ErrMissingMonth", res.Errors[1])
	}
}

func TestExtractLenient_MissingMetadata(t *testing.T) {
	_, err := ExtractLenient(Metadata{SemesterText: "Fall 2024"}, nil)
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("ExtractLenient() error = %v, want ErrMissingField", err)
	}
}

type stubSource struct {
	rows []Row
}

func (s stubSource) Title() string        { return "Graduate Calendar" }
func (s stubSource) RevisionText() string { return "{15 December 2024}" }
func (s stubSource) SemesterText() string { return "Spring 2025" }
func (s stubSource) Rows() []Row          { return s.rows }

func TestFromSource(t *testing.T) {
	src := stubSource{rows: []Row{{DateText: "Feb 21", EventText: "Language Day"}}}

	details, err := FromSource(src)
	if err != nil {
		t.Fatalf("FromSource() error: %v", err)
	}
	if details.CalendarName != "Graduate Calendar" {
		t.Errorf("CalendarName = %q", details.CalendarName)
	}
	if got := details.Entries[0].StartDate; got != date(2025, time.February, 21) {
		t.Errorf("StartDate = %v, want 2025-02-21", got)
	}

	src.rows = append(src.rows, Row{DateText: "Feb 30", EventText: "bad"})
	if _, err := FromSource(src); !errors.Is(err, term.ErrInvalidDate) {
		t.Errorf("FromSource() error = %v, want ErrInvalidDate", err)
	}

	res, err := FromSourceLenient(src)
	if err != nil {
		t.Fatalf("FromSourceLenient() error: %v", err)
	}
	if len(res.Details.Entries) != 1 || len(res.Errors) != 1 {
		t.Errorf("FromSourceLenient() = %d entries, %d errors; want 1, 1", len(res.Details.Entries), len(res.Errors))
	}
}
