package daterange

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrRangeCardinality is returned when the text holds zero or more than two date parts.
	ErrRangeCardinality = errors.New("date range must have one or two parts")
	// ErrDateParse is returned when a date part has no day digits or the text has trailing garbage.
	ErrDateParse = errors.New("unparsable date")
)

// monthAliases lists the accepted month tokens. Longer spellings come first so
// that "September" is not read as "Sep" followed by "tember".
var monthAliases = []struct {
	token string
	month time.Month
}{
	{"January", time.January}, {"Jan", time.January},
	{"February", time.February}, {"Feb", time.February},
	{"March", time.March}, {"Mar", time.March},
	{"April", time.April}, {"Apr", time.April},
	{"May", time.May},
	{"June", time.June}, {"Jun", time.June},
	{"July", time.July}, {"Jul", time.July},
	{"August", time.August}, {"Aug", time.August},
	{"September", time.September}, {"Sept", time.September}, {"Sep", time.September},
	{"October", time.October}, {"Oct", time.October},
	{"November", time.November}, {"Nov", time.November},
	{"December", time.December}, {"Dec", time.December},
}

var (
	// partPattern matches one date part at the start of the remaining input:
	// optional month token, non-digit skip, day digits.
	partPattern = regexp.MustCompile(`^(` + monthAlternation() + `)?[^0-9]*([0-9]+)`)

	// separatorPattern matches a part separator, " - " before "-" before " ".
	separatorPattern = regexp.MustCompile(`^( - |-| )`)
)

// Part is a single parsed date. Month is zero when the text omitted it.
type Part struct {
	Month time.Month `json:"month,omitempty"`
	Day   int        `json:"day"`
}

// HasMonth reports whether the part named its own month
func (p Part) HasMonth() bool {
	return p.Month != 0
}

func (p Part) String() string {
	if !p.HasMonth() {
		return fmt.Sprintf("?/%d", p.Day)
	}
	return fmt.Sprintf("%d/%d", int(p.Month), p.Day)
}

// Range is a one- or two-part date range. End is nil for a single date.
type Range struct {
	Start Part  `json:"start"`
	End   *Part `json:"end,omitempty"`
}

// Parse parses a free-text date range such as "May 31 - June 06" or "March 08-14".
//
// No calendar validation happens here: "Feb 31" parses to {2, 31}.
func Parse(text string) (Range, error) {
	parts, err := parseParts(text)
	if err != nil {
		return Range{}, err
	}

	if len(parts) == 0 || len(parts) > 2 {
		return Range{}, fmt.Errorf("%w: %q has %d parts", ErrRangeCardinality, text, len(parts))
	}

	r := Range{Start: parts[0]}
	if len(parts) == 2 {
		end := parts[1]
		r.End = &end
	}
	return r, nil
}

// parseParts splits text into date parts by the separator grammar
func parseParts(text string) ([]Part, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var parts []Part
	rest := text
	for {
		part, n, err := parsePart(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrDateParse, text, err)
		}
		parts = append(parts, part)
		rest = rest[n:]

		if strings.TrimSpace(rest) == "" {
			return parts, nil
		}

		sep := separatorPattern.FindString(rest)
		if sep == "" {
			return nil, fmt.Errorf("%w: %q: unexpected %q after day", ErrDateParse, text, rest)
		}
		rest = rest[len(sep):]
	}
}

// parsePart reads one date part from the start of s and returns it with the
// number of bytes consumed.
func parsePart(s string) (Part, int, error) {
	// Tolerate doubled spaces between parts ("May 31  June 06").
	trimmed := strings.TrimLeft(s, " ")
	offset := len(s) - len(trimmed)

	m := partPattern.FindStringSubmatchIndex(trimmed)
	if m == nil {
		return Part{}, 0, fmt.Errorf("no day digits in %q", s)
	}

	var part Part
	if m[2] >= 0 {
		month, _, _ := ParseMonth(trimmed[m[2]:m[3]])
		part.Month = month
	}

	digits := trimmed[m[4]:m[5]]
	if len(digits) > 2 {
		return Part{}, 0, fmt.Errorf("day %q has more than two digits", digits)
	}
	day, err := strconv.ParseUint(digits, 10, 8)
	if err != nil {
		return Part{}, 0, fmt.Errorf("day %q: %w", digits, err)
	}
	part.Day = int(day)

	return part, offset + m[1], nil
}

// ParseMonth matches a month token at the start of s. It returns the month, the
// length of the matched token and whether a token matched.
func ParseMonth(s string) (time.Month, int, bool) {
	for _, alias := range monthAliases {
		if strings.HasPrefix(s, alias.token) {
			return alias.month, len(alias.token), true
		}
	}
	return 0, 0, false
}

func monthAlternation() string {
	tokens := make([]string, len(monthAliases))
	for i, alias := range monthAliases {
		tokens[i] = regexp.QuoteMeta(alias.token)
	}
	return strings.Join(tokens, "|")
}
