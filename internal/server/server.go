package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/docket"
	"github.com/tartampluch/go-plazos/internal/engine"
)

// cacheItem stores the rendered feed and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// FeedServer serves the iCalendar feed and a small read-only JSON API over
// the shared holiday calendar.
type FeedServer struct {
	// cache uses atomic.Pointer for lock-free reads; the feed is read by
	// clients far more often than it is rebuilt.
	cache atomic.Pointer[cacheItem]

	Port     string
	BindAddr string

	// Docket backs the upcoming-deadlines route; the route answers 404 when nil.
	Docket         UpcomingLister
	UpcomingWindow int

	// mu guards cal. calendar.Calendar does no locking of its own.
	mu    sync.RWMutex
	cal   *calendar.Calendar
	clock engine.Clock
}

// UpcomingLister lists the open deadlines due within a window of days.
// *docket.Service satisfies it.
type UpcomingLister interface {
	Upcoming(ctx context.Context, today time.Time, withinDays int) ([]docket.Record, error)
}

// NewFeedServer creates a server answering from cal. The clock supplies
// "today" when a request does not name one.
func NewFeedServer(port string, cal *calendar.Calendar, clock engine.Clock) *FeedServer {
	return &FeedServer{
		Port:     port,
		BindAddr: config.LocalhostBindAddr,
		cal:      cal,
		clock:    clock,
	}
}

// Handler returns the routed HTTP handler.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteFeed, readOnly(s.handleFeed))
	mux.HandleFunc(config.RouteHolidays, readOnly(s.handleHolidays))
	mux.HandleFunc(config.RouteDue, readOnly(s.handleDue))
	mux.HandleFunc(config.RouteUpcoming, readOnly(s.handleUpcoming))
	return mux
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         s.BindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served feed.
func (s *FeedServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	item := &cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// WithCalendar runs fn with exclusive access to the shared calendar, for
// callers that add or remove holidays while the server is running.
func (s *FeedServer) WithCalendar(fn func(cal *calendar.Calendar)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cal)
}

// ReadCalendar runs fn with shared access to the calendar.
func (s *FeedServer) ReadCalendar(fn func(cal *calendar.Calendar)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.cal)
}

// readOnly rejects every method but GET and HEAD.
func readOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set(config.HeaderAllow, config.AllowedMethods)
			http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

// handleFeed serves the ICS content with HTTP caching support.
func (s *FeedServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}
