// Package cli implements the command-line interface for ewucal.
//
// The cli package provides the Cobra-based CLI: listing the calendar index,
// printing a calendar's entries (text/JSON, filtered and sorted), generating
// iCalendar files, serving the HTTP API and watching for revised calendars.
// It wires config, scraper, calendar, storage, notifier and server together.
package cli
