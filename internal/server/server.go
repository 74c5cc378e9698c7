package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ewu-ics-cal/ewucal/internal/calendar"
	"github.com/ewu-ics-cal/ewucal/internal/event"
	"github.com/ewu-ics-cal/ewucal/internal/logger"
	"github.com/ewu-ics-cal/ewucal/internal/scraper"
)

const (
	// ServiceName names the OpenTelemetry spans
	ServiceName = "ewucal"

	cacheControl    = "max-age=259200, public"
	cdnCacheControl = "max-age=86400"
	pathParam       = "calendar_path"
	shutdownTimeout = 10 * time.Second
)

// ErrMissingPath is returned when a request has no calendar_path parameter
var ErrMissingPath = errors.New("calendar path not found")

// Fetcher retrieves calendar pages. It is implemented by *scraper.Scraper.
type Fetcher interface {
	Index(ctx context.Context) ([]scraper.Listing, error)
	Details(ctx context.Context, path string) (*event.CalendarDetails, error)
}

// Server serves calendars from a Fetcher
type Server struct {
	fetcher Fetcher
	emitter *calendar.Emitter
	log     *logger.Logger
	now     func() time.Time

	mu      sync.RWMutex
	index   []scraper.Listing
	indexAt time.Time

	handler http.Handler
}

// Option configures a Server
type Option func(*Server)

// WithEmitter sets the ICS emitter
func WithEmitter(e *calendar.Emitter) Option {
	return func(s *Server) {
		s.emitter = e
	}
}

// WithLogger sets the request logger
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithClock sets the clock used for DTSTAMP and CREATED
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New creates a server around fetcher
func New(fetcher Fetcher, opts ...Option) *Server {
	s := &Server{
		fetcher: fetcher,
		emitter: calendar.NewEmitter(),
		log:     logger.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/calendars", s.handleCalendars)
	mux.HandleFunc("GET /api/entries", s.handleEntries)
	mux.HandleFunc("GET /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /debug/metrics", s.handleMetrics)

	s.handler = Chain(mux,
		Recover(s.log),
		Logging(s.log),
		OTel(ServiceName),
	)
	return s
}

// Handler returns the HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// RefreshIndex fetches the calendar index and replaces the cached copy
func (s *Server) RefreshIndex(ctx context.Context) error {
	listings, err := s.fetcher.Index(ctx)
	if err != nil {
		logger.IncrCounter("server.index_refresh_error")
		return fmt.Errorf("refreshing index: %w", err)
	}

	s.mu.Lock()
	s.index = listings
	s.indexAt = s.now()
	s.mu.Unlock()

	logger.IncrCounter("server.index_refresh")
	return nil
}

// cachedIndex returns the cached index, fetching it on first use
func (s *Server) cachedIndex(ctx context.Context) ([]scraper.Listing, error) {
	s.mu.RLock()
	listings, at := s.index, s.indexAt
	s.mu.RUnlock()

	if !at.IsZero() {
		return listings, nil
	}
	if err := s.RefreshIndex(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index, nil
}

// Start serves on listen until ctx is canceled. A non-empty refresh cron
// schedule keeps the cached index up to date in the background.
func (s *Server) Start(ctx context.Context, listen, refresh string) error {
	if refresh != "" {
		c := cron.New()
		_, err := c.AddFunc(refresh, func() {
			if err := s.RefreshIndex(ctx); err != nil {
				s.log.Warn("index refresh failed", logger.Fields{"error": err.Error()})
			}
		})
		if err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", refresh, err)
		}
		c.Start()
		defer c.Stop()
	}

	srv := &http.Server{
		Addr:         listen,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", logger.Fields{"listen": listen, "refresh": refresh})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.log.Info("shutdown signal received", nil)
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// --- Handlers ---

func (s *Server) handleCalendars(w http.ResponseWriter, r *http.Request) {
	listings, err := s.cachedIndex(r.Context())
	if err != nil {
		s.fail(w, r, http.StatusBadGateway, err)
		return
	}

	setCacheHeaders(w)
	s.writeJSON(w, r, listings)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	details, ok := s.details(w, r)
	if !ok {
		return
	}

	if since, err := http.ParseTime(r.Header.Get("If-Modified-Since")); err == nil {
		if !event.DateOf(since.UTC()).Before(details.RevisionDate) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	w.Header().Set("Last-Modified", details.RevisionDate.Time().Format(http.TimeFormat))
	setCacheHeaders(w)
	s.writeJSON(w, r, s.emitter.Record(details))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	details, ok := s.details(w, r)
	if !ok {
		return
	}

	body := s.emitter.ICS(details, s.now())
	logger.IncrCounter("server.generated")

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", calendar.FileName(details)))
	setCacheHeaders(w)
	s.write(w, r, []byte(body))
}

// details resolves the calendar_path parameter. On failure the response has
// already been written.
func (s *Server) details(w http.ResponseWriter, r *http.Request) (*event.CalendarDetails, bool) {
	path := r.URL.Query().Get(pathParam)
	if path == "" {
		s.fail(w, r, http.StatusBadRequest, ErrMissingPath)
		return nil, false
	}

	details, err := s.fetcher.Details(r.Context(), path)
	if err != nil {
		s.fail(w, r, http.StatusNotFound, err)
		return nil, false
	}
	return details, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.log.Warn("request failed", logger.Fields{
		"path":   r.URL.Path,
		"query":  r.URL.RawQuery,
		"status": status,
		"error":  err.Error(),
	})
	http.Error(w, err.Error(), status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	s.write(w, r, []byte("ok"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, logger.MetricsSnapshot())
}

func setCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("CDN-Cache-Control", cdnCacheControl)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.writeFailed(r, err)
	}
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, body []byte) {
	if _, err := w.Write(body); err != nil {
		s.writeFailed(r, err)
	}
}

// writeFailed records a response that broke off after the status was sent
func (s *Server) writeFailed(r *http.Request, err error) {
	logger.IncrCounter("server.write_errors")
	s.log.Warn("writing response failed", logger.Fields{
		"path":  r.URL.Path,
		"query": r.URL.RawQuery,
		"error": err.Error(),
	})
}
