// Package daterange parses the free-text date ranges found in academic calendar tables.
//
// A range is one or two date parts separated by " - ", "-" or a single space. Each part
// is an optional English month name or abbreviation, any run of non-digit characters,
// and a one or two digit day:
//
//	May 31 - June 06
//	March 08-14
//	Sept. 26-Oct. 01
//	September 23
//
// A part without a month inherits one later (see package extract); this package only
// reports what the text says.
package daterange
