package internal

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitRecorder collects the waits announced before each retry
type waitRecorder struct {
	waits []time.Duration
}

func (s *waitRecorder) notify(_ error, d time.Duration) {
	s.waits = append(s.waits, d)
}

func (s *waitRecorder) total() time.Duration {
	var sum time.Duration
	for _, w := range s.waits {
		sum += w
	}
	return sum
}

// statusServer answers with the given statuses in order, repeating the last one
func statusServer(t *testing.T, body string, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		status := statuses[min(n, len(statuses)-1)]
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write([]byte(body))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

// newTestFetcher backs off in milliseconds instead of seconds
func newTestFetcher(srv *httptest.Server, rec *waitRecorder, options ...FetcherOption) *Fetcher {
	options = append([]FetcherOption{
		WithHTTPClient(srv.Client()),
		WithBackoffUnit(time.Millisecond),
		WithRetryNotify(rec.notify),
	}, options...)
	return NewFetcher(options...)
}

func TestFetchRetriesRateLimits(t *testing.T) {
	srv, calls := statusServer(t, "payload", 429, 429, 429, 200)
	rec := &waitRecorder{}
	f := newTestFetcher(srv, rec, WithJitter(func() float64 { return 1.0 }))

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.EqualValues(t, 4, calls.Load())
	assert.Equal(t, []time.Duration{2 * time.Millisecond, 3 * time.Millisecond, 5 * time.Millisecond}, rec.waits)
	assert.Equal(t, 10*time.Millisecond, rec.total())
}

func TestFetchRandomJitterBounds(t *testing.T) {
	for range 20 {
		srv, _ := statusServer(t, "ok", 429, 429, 429, 200)
		rec := &waitRecorder{}
		f := newTestFetcher(srv, rec)

		_, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rec.total(), 8500*time.Microsecond)
		assert.Less(t, rec.total(), 13*time.Millisecond)
	}
}

func TestFetchExhausted(t *testing.T) {
	srv, calls := statusServer(t, "", 429)
	rec := &waitRecorder{}
	f := newTestFetcher(srv, rec,
		WithMaxAttempts(3),
		WithJitter(func() float64 { return 0.5 }),
	)

	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchExhausted)

	var exhausted *FetchExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.EqualValues(t, 3, calls.Load())
	// no wait after the final attempt
	assert.Len(t, rec.waits, 2)
}

func TestFetchOtherStatusFailsImmediately(t *testing.T) {
	srv, calls := statusServer(t, "", 404)
	rec := &waitRecorder{}
	f := newTestFetcher(srv, rec)

	_, err := f.Fetch(context.Background(), srv.URL)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, 1, httpErr.Attempt)
	assert.EqualValues(t, 1, calls.Load())
	assert.Empty(t, rec.waits)
}

func TestFetchCancelledDuringBackoff(t *testing.T) {
	srv, calls := statusServer(t, "", 429)
	ctx, cancel := context.WithCancel(context.Background())
	f := NewFetcher(
		WithHTTPClient(srv.Client()),
		WithRetryNotify(func(error, time.Duration) { cancel() }),
	)

	start := time.Now()
	_, err := f.Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 1, calls.Load())
	assert.Less(t, time.Since(start), time.Second)
}

func TestFetchRejectsOversizedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("a"), 2048))
	}))
	defer srv.Close()

	_, err := NewFetcher(WithHTTPClient(srv.Client()), WithMaxCaptionBytes(1024)).Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrCaptionPayloadTooLarge)
	assert.Contains(t, err.Error(), "more than 1024 bytes")

	body, err := NewFetcher(WithHTTPClient(srv.Client()), WithMaxCaptionBytes(2048)).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, body, 2048)
}

func TestFetchSendsBrowserHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	_, err := NewFetcher(WithHTTPClient(srv.Client())).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, got.Get("User-Agent"), "Mozilla/5.0")
	assert.Equal(t, "en-US,en;q=0.9", got.Get("Accept-Language"))
	assert.Equal(t, "https://www.youtube.com/", got.Get("Referer"))
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, Backoff(0, 0.5))
	assert.Equal(t, 10*time.Second, Backoff(3, 2.0))

	b := &captionBackOff{unit: time.Millisecond, jitter: func() float64 { return 1.0 }}
	assert.Equal(t, 2*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 3*time.Millisecond, b.NextBackOff())
	b.Reset()
	assert.Equal(t, 2*time.Millisecond, b.NextBackOff())
}

func TestDefaultJitterRange(t *testing.T) {
	for range 1000 {
		j := defaultJitter()
		assert.GreaterOrEqual(t, j, 0.5)
		assert.Less(t, j, 2.0)
	}
}

func TestFetchLogsRetries(t *testing.T) {
	srv, _ := statusServer(t, "ok", 429, 200)
	var logs bytes.Buffer
	f := newTestFetcher(srv, &waitRecorder{},
		WithJitter(func() float64 { return 0.5 }),
		WithFetchLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "rate-limited while fetching captions")
	assert.Contains(t, logs.String(), "attempt=1")
	assert.Contains(t, logs.String(), "retry_in=1.5ms")
}
