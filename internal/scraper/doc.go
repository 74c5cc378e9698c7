// Package scraper fetches and reads the institution's academic calendar pages.
//
// The index page lists calendars per academic year and program. A detail page has a
// heading, a metadata block carrying the semester ("Fall 2024") and the revision
// stamp ("{01 September 2024}"), and a table whose first cell holds the date text
// and third cell the event text. Page implements extract.Source so that extraction
// never depends on HTML selectors.
package scraper
