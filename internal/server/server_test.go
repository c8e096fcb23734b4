package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/tartampluch/go-plazos/internal/engine"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

// newTestServer returns a server over the Chilean table with "today" pinned
// to 2025-09-15.
func newTestServer() *FeedServer {
	return NewFeedServer("0", calendar.NewChilean(), fixedClock(time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)))
}

// withFeed renders the server's own calendar and publishes it.
func withFeed(t *testing.T, srv *FeedServer) []byte {
	t.Helper()
	gen := &engine.Generator{Clock: srv.clock}

	var data []byte
	var err error
	srv.ReadCalendar(func(cal *calendar.Calendar) {
		data, err = gen.BuildFeed(context.Background(), cal, nil)
	})
	require.NoError(t, err)
	srv.Update(data)
	return data
}

func TestFeed_NotReady(t *testing.T) {
	w := get(t, newTestServer(), config.RouteFeed)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, config.RetryAfterSeconds, w.Header().Get(config.HeaderRetryAfter))
}

func TestFeed_Serves(t *testing.T) {
	srv := newTestServer()
	data := withFeed(t, srv)

	w := get(t, srv, config.RouteFeed)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, config.MimeTextCalendar, w.Header().Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, w.Header().Get(config.HeaderXContentType))
	assert.Equal(t, config.CacheControlPrivate, w.Header().Get(config.HeaderCacheControl))
	assert.NotEmpty(t, w.Header().Get(config.HeaderLastModified))
	assert.Equal(t, data, w.Body.Bytes())
	assert.Contains(t, w.Body.String(), "Fiestas Patrias")
}

func TestFeed_ConditionalRequests(t *testing.T) {
	srv := newTestServer()
	withFeed(t, srv)
	first := get(t, srv, config.RouteFeed)
	etag := first.Header().Get(config.HeaderETag)
	require.NotEmpty(t, etag)

	lastModified, err := time.Parse(http.TimeFormat, first.Header().Get(config.HeaderLastModified))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"matching etag", config.HeaderIfNoneMatch, etag, http.StatusNotModified},
		{"stale etag", config.HeaderIfNoneMatch, `"0000"`, http.StatusOK},
		{"modified since earlier", config.HeaderIfModifiedSince, lastModified.Add(-time.Hour).Format(http.TimeFormat), http.StatusOK},
		{"not modified since", config.HeaderIfModifiedSince, lastModified.Add(time.Hour).Format(http.TimeFormat), http.StatusNotModified},
		{"unparseable date", config.HeaderIfModifiedSince, "yesterday", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, config.RouteFeed, nil)
			req.Header.Set(tt.header, tt.value)
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusNotModified {
				assert.Empty(t, w.Body.Bytes())
			}
		})
	}
}

func TestFeed_ETagFollowsContent(t *testing.T) {
	srv := newTestServer()
	srv.Update([]byte("A"))
	etagA := get(t, srv, config.RouteFeed).Header().Get(config.HeaderETag)
	srv.Update([]byte("B"))
	etagB := get(t, srv, config.RouteFeed).Header().Get(config.HeaderETag)
	srv.Update([]byte("A"))

	assert.NotEqual(t, etagA, etagB)
	assert.Equal(t, etagA, get(t, srv, config.RouteFeed).Header().Get(config.HeaderETag))
}

func TestFeed_Head(t *testing.T) {
	srv := newTestServer()
	withFeed(t, srv)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodHead, config.RouteFeed, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	srv := newTestServer()
	for _, route := range []string{config.RouteFeed, config.RouteHolidays, config.RouteDue, config.RouteUpcoming} {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(method, route, nil))

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "%s %s", method, route)
			assert.Equal(t, config.AllowedMethods, w.Header().Get(config.HeaderAllow))
		}
	}
}

// Readers must never observe a torn cache entry while feeds are republished.
func TestFeed_ConcurrentUpdates(t *testing.T) {
	srv := newTestServer()
	var wg sync.WaitGroup
	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				srv.Update([]byte("FEED-" + strconv.Itoa(id) + "-" + strconv.Itoa(i)))
			}
		}(w)
	}

	for r := 0; r < 16; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				srv.handleFeed(w, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("unexpected status %d", w.Code)
				}
			}
		}()
	}
	wg.Wait()
}

func TestStart_RequiresPort(t *testing.T) {
	srv := NewFeedServer("", calendar.New(), engine.RealClock{})
	assert.EqualError(t, srv.Start(context.Background()), config.ErrPortRequired)
}

func TestStart_ServesUntilCancelled(t *testing.T) {
	const port = "18099"

	srv := NewFeedServer(port, calendar.NewChilean(), engine.RealClock{})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	base := "http://" + config.LocalhostBindAddr + config.AddrSeparator + port
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + config.RouteHolidays)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 50*time.Millisecond, "server did not start listening")

	resp, err := http.Get(base + config.RouteFeed)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	withFeed(t, srv)
	resp, err = http.Get(base + config.RouteFeed)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(config.ShutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
