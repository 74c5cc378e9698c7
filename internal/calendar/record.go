package calendar

import "github.com/ewu-ics-cal/ewucal/internal/event"

// Record is the structured form of CalendarDetails served to API clients
type Record struct {
	Title        string        `json:"title"`
	CalendarName string        `json:"calendar_name"`
	Semester     string        `json:"semester"`
	Year         int           `json:"year"`
	RevisionDate event.Date    `json:"revision_date"`
	Entries      []RecordEntry `json:"entries"`
}

// RecordEntry is an Entry plus the identifier its ICS event carries
type RecordEntry struct {
	ID string `json:"id"`
	event.Entry
}

// Record builds the structured form of details. Entry IDs match the ICS UIDs.
func (e *Emitter) Record(details *event.CalendarDetails) Record {
	entries := make([]RecordEntry, len(details.Entries))
	for i, entry := range details.Entries {
		entries[i] = RecordEntry{ID: e.EventID(entry.EventText), Entry: entry}
	}

	return Record{
		Title:        details.DisplayName(),
		CalendarName: details.CalendarName,
		Semester:     details.Semester,
		Year:         details.Year,
		RevisionDate: details.RevisionDate,
		Entries:      entries,
	}
}
