package term

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ewu-ics-cal/ewucal/internal/event"
)

// ErrInvalidDate is returned when a month/day pair is not a real calendar day
var ErrInvalidDate = errors.New("invalid calendar date")

// Season is the academic season a term belongs to
type Season string

const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Fall   Season = "Fall"
)

// semesterPattern matches "Fall 2024", "SPRING 2025", etc. anywhere in a text blob
var semesterPattern = regexp.MustCompile(`(?i)(spring|summer|fall)\s(\d{4})`)

// Semester is a season in a given year
type Semester struct {
	Season Season
	Year   int
	// Label is the season as written on the page ("Fall", "FALL", ...)
	Label string
}

// FindSemester locates the first "<Season> <year>" in text
func FindSemester(text string) (Semester, bool) {
	m := semesterPattern.FindStringSubmatch(text)
	if m == nil {
		return Semester{}, false
	}

	year, err := strconv.Atoi(m[2])
	if err != nil {
		return Semester{}, false
	}

	var season Season
	switch strings.ToLower(m[1]) {
	case "spring":
		season = Spring
	case "summer":
		season = Summer
	default:
		season = Fall
	}

	return Semester{Season: season, Year: year, Label: m[1]}, true
}

// ReferenceDate is the assumed publish date of the term's calendar
func (s Semester) ReferenceDate() event.Date {
	switch s.Season {
	case Spring:
		return event.Date{Year: s.Year, Month: time.January, Day: 1}
	case Summer:
		return event.Date{Year: s.Year, Month: time.May, Day: 1}
	default:
		return event.Date{Year: s.Year, Month: time.September, Day: 1}
	}
}

func (s Semester) String() string {
	return fmt.Sprintf("%s %d", s.Season, s.Year)
}

// Resolve turns a month/day pair into a date relative to reference. Months
// before the reference month roll over into the following year.
func Resolve(month time.Month, day int, reference event.Date) (event.Date, error) {
	year := reference.Year
	if int(month)-int(reference.Month) < 0 {
		year++
	}

	d, ok := event.NewDate(year, month, day)
	if !ok {
		return event.Date{}, fmt.Errorf("%w: month %d day %d", ErrInvalidDate, int(month), day)
	}
	return d, nil
}
