package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayout is the JSON and display form of a Date
const dateLayout = "2006-01-02"

// Date is a calendar day without a time-of-day or zone
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, reporting false if year/month/day do not form a real day
func NewDate(year int, month time.Month, day int) (Date, bool) {
	if month < time.January || month > time.December || day < 1 {
		return Date{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// DateOf returns the Date of t in t's own location
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d falls strictly before other
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("parsing date %q: %w", s, err)
	}
	*d = DateOf(t)
	return nil
}

// Entry is one calendar occurrence extracted from a table row
type Entry struct {
	StartDate    Date   `json:"start_date"`
	EndDate      *Date  `json:"end_date"` // nil for a single-day event
	RevisionDate Date   `json:"revision_date"`
	EventText    string `json:"event_text"`
}

// LastDate returns the end date, or the start date for single-day entries
func (e Entry) LastDate() Date {
	if e.EndDate != nil {
		return *e.EndDate
	}
	return e.StartDate
}

// IsMultiDay reports whether the entry spans more than one distinct day
func (e Entry) IsMultiDay() bool {
	return e.EndDate != nil && *e.EndDate != e.StartDate
}

// CalendarDetails is the structured result of one page extraction
type CalendarDetails struct {
	CalendarName string  `json:"calendar_name"`
	Semester     string  `json:"semester"`
	Year         int     `json:"year"`
	RevisionDate Date    `json:"revision_date"`
	Entries      []Entry `json:"entries"`
}

// DisplayName is the human title of the calendar, e.g. "Fall 2024 Undergraduate Calendar"
func (c *CalendarDetails) DisplayName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %d %s", c.Semester, c.Year, c.CalendarName))
}

// NormalizeText collapses every whitespace run (including newlines between
// text fragments) into a single space and trims both ends.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
