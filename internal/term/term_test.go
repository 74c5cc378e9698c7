package term

import (
	"errors"
	"testing"
	"time"

	"github.com/ewu-ics-cal/ewucal/internal/event"
)

func TestResolve(t *testing.T) {
	fall2024 := event.Date{Year: 2024, Month: time.September, Day: 1}
	spring2025 := event.Date{Year: 2025, Month: time.January, Day: 1}
	summer2025 := event.Date{Year: 2025, Month: time.May, Day: 1}

	tests := []struct {
		name      string
		month     time.Month
		day       int
		reference event.Date
		want      event.Date
	}{
		{"fall rolls January over", time.January, 15, fall2024, event.Date{Year: 2025, Month: time.January, Day: 15}},
		{"fall keeps October", time.October, 1, fall2024, event.Date{Year: 2024, Month: time.October, Day: 1}},
		{"fall keeps December", time.December, 20, fall2024, event.Date{Year: 2024, Month: time.December, Day: 20}},
		{"same month as reference", time.September, 1, fall2024, event.Date{Year: 2024, Month: time.September, Day: 1}},
		{"fall rolls August over", time.August, 31, fall2024, event.Date{Year: 2025, Month: time.August, Day: 31}},
		{"spring never rolls", time.April, 10, spring2025, event.Date{Year: 2025, Month: time.April, Day: 10}},
		{"summer rolls April over", time.April, 30, summer2025, event.Date{Year: 2026, Month: time.April, Day: 30}},
		{"summer keeps August", time.August, 5, summer2025, event.Date{Year: 2025, Month: time.August, Day: 5}},
		{"leap day in rolled year", time.February, 29, event.Date{Year: 2023, Month: time.September, Day: 1}, event.Date{Year: 2024, Month: time.February, Day: 29}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.month, tt.day, tt.reference)
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%v, %d, %v) = %v, want %v", tt.month, tt.day, tt.reference, got, tt.want)
			}
		})
	}
}

func TestResolve_InvalidDate(t *testing.T) {
	fall2024 := event.Date{Year: 2024, Month: time.September, Day: 1}

	tests := []struct {
		name  string
		month time.Month
		day   int
	}{
		{"day 31 in September", time.September, 31},
		{"day 32", time.October, 32},
		{"Feb 29 in non-leap rolled year", time.February, 29},
		{"day zero", time.November, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.month, tt.day, fall2024)
			if !errors.Is(err, ErrInvalidDate) {
				t.Errorf("Resolve(%v, %d) error = %v, want ErrInvalidDate", tt.month, tt.day, err)
			}
		})
	}
}

func TestFindSemester(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantSeason Season
		wantYear   int
		wantLabel  string
		wantOK     bool
	}{
		{"plain", "Fall 2024", Fall, 2024, "Fall", true},
		{"embedded", "Academic Calendar Spring 2025 (Undergraduate)", Spring, 2025, "Spring", true},
		{"upper case", "SUMMER 2023", Summer, 2023, "SUMMER", true},
		{"first wins", "Fall 2024 replaces Summer 2024", Fall, 2024, "Fall", true},
		{"missing year", "Fall semester", "", 0, "", false},
		{"no season", "Academic Calendar 2024", "", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindSemester(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("FindSemester(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Season != tt.wantSeason || got.Year != tt.wantYear || got.Label != tt.wantLabel {
				t.Errorf("FindSemester(%q) = %+v, want %s %d (%s)", tt.text, got, tt.wantSeason, tt.wantYear, tt.wantLabel)
			}
		})
	}
}

func TestSemester_ReferenceDate(t *testing.T) {
	tests := []struct {
		semester Semester
		want     event.Date
	}{
		{Semester{Season: Spring, Year: 2025}, event.Date{Year: 2025, Month: time.January, Day: 1}},
		{Semester{Season: Summer, Year: 2025}, event.Date{Year: 2025, Month: time.May, Day: 1}},
		{Semester{Season: Fall, Year: 2024}, event.Date{Year: 2024, Month: time.September, Day: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.semester.String(), func(t *testing.T) {
			if got := tt.semester.ReferenceDate(); got != tt.want {
				t.Errorf("ReferenceDate() = %v, want %v", got, tt.want)
			}
		})
	}
}
