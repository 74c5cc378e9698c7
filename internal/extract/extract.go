package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ewu-ics-cal/ewucal/internal/daterange"
	"github.com/ewu-ics-cal/ewucal/internal/event"
	"github.com/ewu-ics-cal/ewucal/internal/term"
)

var (
	// ErrMissingMonth is returned when the first part of a date range names no month
	ErrMissingMonth = errors.New("start date has no month")
	// ErrMissingField is returned when the revision date or semester is not in the metadata
	ErrMissingField = errors.New("missing calendar field")
)

// headerLabel is the date column heading repeated in the table's header row
const headerLabel = "Date"

// revisionPattern matches the revision stamp, e.g. "{01 September 2024}"
var revisionPattern = regexp.MustCompile(`\{(\d?\d\s\w+\s\d{4})\}`)

// revisionLayouts are tried in order against the text inside the braces
var revisionLayouts = []string{"2 January 2006", "2 Jan 2006"}

// Row is the text of one table row
type Row struct {
	DateText  string `json:"date_text"`
	EventText string `json:"event_text"`
}

// Metadata is the page-level text the revision date and semester are found in.
// Either text field may be empty, in which case the other is searched.
type Metadata struct {
	Title        string
	RevisionText string
	SemesterText string
}

func (m Metadata) revisionSource() string {
	if m.RevisionText == "" {
		return m.SemesterText
	}
	return m.RevisionText
}

func (m Metadata) semesterSource() string {
	if m.SemesterText == "" {
		return m.RevisionText
	}
	return m.SemesterText
}

// RowError reports the row that failed and why
type RowError struct {
	Index    int
	DateText string
	Err      error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (%q): %v", e.Index, e.DateText, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a lenient extraction
type Result struct {
	Details *event.CalendarDetails
	Errors  []*RowError
}

// Extract builds CalendarDetails from metadata and rows, failing on the first bad row.
func Extract(meta Metadata, rows []Row) (*event.CalendarDetails, error) {
	res, err := run(meta, rows, false)
	if err != nil {
		return nil, err
	}
	return res.Details, nil
}

// ExtractLenient is Extract without the fail-fast policy: rows that fail are
// collected in Result.Errors and the rest are kept. Missing metadata still fails.
func ExtractLenient(meta Metadata, rows []Row) (*Result, error) {
	return run(meta, rows, true)
}

func run(meta Metadata, rows []Row, lenient bool) (*Result, error) {
	revision, err := findRevisionDate(meta.revisionSource())
	if err != nil {
		return nil, err
	}

	semester, ok := term.FindSemester(meta.semesterSource())
	if !ok {
		return nil, fmt.Errorf("%w: semester and year", ErrMissingField)
	}
	reference := semester.ReferenceDate()

	res := &Result{
		Details: &event.CalendarDetails{
			CalendarName: strings.TrimSpace(meta.Title),
			Semester:     semester.Label,
			Year:         semester.Year,
			RevisionDate: revision,
			Entries:      make([]event.Entry, 0, len(rows)),
		},
	}

	for i, row := range rows {
		dateText := strings.TrimSpace(row.DateText)
		if dateText == "" || strings.HasPrefix(dateText, headerLabel) {
			continue
		}

		entry, err := entryFromRow(dateText, row.EventText, reference, revision)
		if err != nil {
			rowErr := &RowError{Index: i, DateText: dateText, Err: err}
			if !lenient {
				return nil, rowErr
			}
			res.Errors = append(res.Errors, rowErr)
			continue
		}
		res.Details.Entries = append(res.Details.Entries, entry)
	}

	return res, nil
}

// entryFromRow parses and resolves one row's dates
func entryFromRow(dateText, eventText string, reference, revision event.Date) (event.Entry, error) {
	r, err := daterange.Parse(dateText)
	if err != nil {
		return event.Entry{}, err
	}

	if !r.Start.HasMonth() {
		return event.Entry{}, ErrMissingMonth
	}

	start, err := term.Resolve(r.Start.Month, r.Start.Day, reference)
	if err != nil {
		return event.Entry{}, fmt.Errorf("start date: %w", err)
	}

	entry := event.Entry{
		StartDate:    start,
		RevisionDate: revision,
		EventText:    event.NormalizeText(eventText),
	}

	if r.End != nil {
		month := r.End.Month
		if !r.End.HasMonth() {
			month = r.Start.Month
		}
		end, err := term.Resolve(month, r.End.Day, reference)
		if err != nil {
			return event.Entry{}, fmt.Errorf("end date: %w", err)
		}
		entry.EndDate = &end
	}

	return entry, nil
}

// findRevisionDate locates and parses the "{DD Month YYYY}" stamp
func findRevisionDate(text string) (event.Date, error) {
	m := revisionPattern.FindStringSubmatch(text)
	if m == nil {
		return event.Date{}, fmt.Errorf("%w: revision date", ErrMissingField)
	}

	raw := strings.Join(strings.Fields(m[1]), " ")
	for _, layout := range revisionLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return event.DateOf(t), nil
		}
	}
	return event.Date{}, fmt.Errorf("parsing revision date %q: %w", raw, term.ErrInvalidDate)
}

// Source is the narrow view of a calendar page the extractor needs. It is
// implemented by the HTML page parser; extraction never sees the document itself.
type Source interface {
	Title() string
	RevisionText() string
	SemesterText() string
	Rows() []Row
}

// FromSource runs Extract on a page source
func FromSource(src Source) (*event.CalendarDetails, error) {
	return Extract(metadataOf(src), src.Rows())
}

// FromSourceLenient runs ExtractLenient on a page source
func FromSourceLenient(src Source) (*Result, error) {
	return ExtractLenient(metadataOf(src), src.Rows())
}

func metadataOf(src Source) Metadata {
	return Metadata{
		Title:        src.Title(),
		RevisionText: src.RevisionText(),
		SemesterText: src.SemesterText(),
	}
}
