// Package calendar serializes extracted calendar details for consumers.
//
// ICS output is an iCalendar document with one VTIMEZONE and one whole-day VEVENT
// per entry, in entry order. The current time and the identifier hash are inputs,
// so the same details and the same "now" always produce the same bytes. Record is
// the structured form served as JSON.
package calendar
