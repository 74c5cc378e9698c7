package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ewu-ics-cal/ewucal/internal/event"
	"github.com/ewu-ics-cal/ewucal/internal/extract"
	"github.com/ewu-ics-cal/ewucal/internal/logger"
)

const (
	BaseURL   = "https://www.ewubd.edu"
	IndexPath = "/academic-calendar"
	UserAgent = "ewucal/1.0 (github.com/ewu-ics-cal/ewucal)"
	Timeout   = 30 * time.Second
)

// Scraper fetches calendar pages from the institution site
type Scraper struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// Option configures a Scraper
type Option func(*Scraper)

// WithBaseURL points the scraper at another host, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(s *Scraper) {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.client.Timeout = d
	}
}

// WithRateLimit caps outbound requests at perSecond with the given burst
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Scraper) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL: BaseURL,
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 2),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Index fetches and parses the calendar index page
func (s *Scraper) Index(ctx context.Context) ([]Listing, error) {
	var listings []Listing
	err := s.fetch(ctx, IndexPath, func(r io.Reader) error {
		var err error
		listings, err = ParseIndexPage(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// Page fetches and parses one calendar detail page. path is site-relative,
// e.g. "/academic-calendar-details/fall-2024-undergraduate".
func (s *Scraper) Page(ctx context.Context, path string) (*Page, error) {
	var page *Page
	err := s.fetch(ctx, path, func(r io.Reader) error {
		var err error
		page, err = ParseDetailPage(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Details fetches a calendar detail page and extracts its entries
func (s *Scraper) Details(ctx context.Context, path string) (*event.CalendarDetails, error) {
	page, err := s.Page(ctx, path)
	if err != nil {
		return nil, err
	}

	details, err := extract.FromSource(page)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	logger.Debug("calendar extracted", logger.Fields{
		"path":     path,
		"entries":  len(details.Entries),
		"revision": details.RevisionDate.String(),
	})
	return details, nil
}

// fetch GETs a site-relative path and hands the body to parse
func (s *Scraper) fetch(ctx context.Context, path string, parse func(io.Reader) error) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("calendar path must start with /: %q", path)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	url := s.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	logger.RecordTiming("scraper.fetch", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		logger.IncrCounter("scraper.fetch_error")
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return parse(resp.Body)
}
