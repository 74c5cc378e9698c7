// Package extract turns pre-extracted calendar page text into CalendarDetails.
//
// Callers hand in the page metadata text and the ordered (date, event) cell text of
// each table row. Extract is all-or-nothing: the first bad row aborts the call and no
// entries are returned. ExtractLenient keeps the good rows and reports the bad ones.
package extract
