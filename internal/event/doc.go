// Package event provides the data model shared by the extraction and export stages.
//
// An Entry is one dated row of an academic calendar: a whole-day or multi-day span,
// the page-level revision date and the normalized event text. CalendarDetails groups
// the entries of one page together with the calendar-level metadata. Values are built
// once per extraction and never mutated afterwards.
package event
