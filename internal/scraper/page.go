package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ewu-ics-cal/ewucal/internal/extract"
)

// Detail page selectors
const (
	contentSelector = ".row > .col-md-9"
	titleSelector   = ".row > .col-md-9 h3"
	tableSelector   = "table"
	rowSelector     = "tr"
	dateCell        = "td:nth-of-type(1)"
	eventCell       = "td:nth-of-type(3)"
)

// Index page selectors
const (
	yearTabSelector  = ".training-program-tab li"
	yearPaneSelector = `.tab-content > [id="%s"]`
	programSelector  = ".panel-heading"
	panelSelector    = ".panel-body"
	calendarSelector = "ul > li > a"
	excludedNamePart = "exam"
)

// Page is the text content of one calendar detail page
type Page struct {
	title    string
	metadata string
	rows     []extract.Row
}

// Title returns the calendar heading
func (p *Page) Title() string { return p.title }

// RevisionText returns the metadata block the revision stamp is found in
func (p *Page) RevisionText() string { return p.metadata }

// SemesterText returns the metadata block the semester is found in
func (p *Page) SemesterText() string { return p.metadata }

// Rows returns the table rows in page order
func (p *Page) Rows() []extract.Row { return p.rows }

// ParseDetailPage reads a calendar detail page
func ParseDetailPage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	content := doc.Find(contentSelector).First()
	if content.Length() == 0 {
		return nil, fmt.Errorf("calendar content block not found")
	}

	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("calendar table not found")
	}

	page := &Page{
		title:    strings.TrimSpace(doc.Find(titleSelector).First().Text()),
		metadata: strings.TrimSpace(content.Text()),
	}

	table.Find(rowSelector).Each(func(_ int, row *goquery.Selection) {
		page.rows = append(page.rows, extract.Row{
			DateText:  strings.TrimSpace(row.Find(dateCell).First().Text()),
			EventText: fragments(row.Find(eventCell).First()),
		})
	})

	return page, nil
}

// fragments joins the text nodes under sel with newlines so that "<br>"-separated
// lines do not run together. extract normalizes the whitespace afterwards.
func fragments(sel *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				if text := strings.TrimSpace(c.Text()); text != "" {
					parts = append(parts, text)
				}
				return
			}
			walk(c)
		})
	}
	walk(sel)
	return strings.Join(parts, "\n")
}

// CalendarLink is one calendar listed on the index page
type CalendarLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Program groups the calendars of one program type, e.g. "Undergraduate"
type Program struct {
	ProgramType string         `json:"program_type"`
	Calendars   []CalendarLink `json:"calendars"`
}

// Listing is one academic year tab of the index page
type Listing struct {
	Year     string    `json:"year"`
	Programs []Program `json:"programs"`
}

// ParseIndexPage reads the calendar index. Exam calendars are left out.
func ParseIndexPage(r io.Reader) ([]Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	listings := make([]Listing, 0)
	doc.Find(yearTabSelector).Each(func(_ int, tab *goquery.Selection) {
		year := strings.TrimSpace(tab.Text())
		if year == "" {
			return
		}
		pane := doc.Find(fmt.Sprintf(yearPaneSelector, year)).First()
		listings = append(listings, Listing{Year: year, Programs: programs(pane)})
	})

	return listings, nil
}

// programs pairs each panel heading with the calendar links of the panel body at the same position
func programs(pane *goquery.Selection) []Program {
	headings := pane.Find(programSelector)
	bodies := pane.Find(panelSelector)

	n := headings.Length()
	if bodies.Length() < n {
		n = bodies.Length()
	}

	out := make([]Program, 0, n)
	for i := 0; i < n; i++ {
		program := Program{
			ProgramType: strings.TrimSpace(headings.Eq(i).Text()),
			Calendars:   make([]CalendarLink, 0),
		}
		bodies.Eq(i).Find(calendarSelector).Each(func(_ int, a *goquery.Selection) {
			name := strings.TrimSpace(a.Text())
			if strings.Contains(strings.ToLower(name), excludedNamePart) {
				return
			}
			href, _ := a.Attr("href")
			program.Calendars = append(program.Calendars, CalendarLink{Name: name, URL: href})
		})
		out = append(out, program)
	}
	return out
}
