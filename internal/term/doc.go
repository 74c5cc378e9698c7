// Package term resolves bare month/day pairs into full dates for an academic term.
//
// Calendar pages list "January 15" without a year. Each term has a reference
// (publish) date: Spring on Jan 1, Summer on May 1, Fall on Sep 1 of the stated
// year. A month earlier in the year than the reference month belongs to the
// following year, so a Fall 2024 "January 15" is 2025-01-15.
package term
