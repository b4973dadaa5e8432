package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// DefaultMaxAttempts is how many times a rate-limited caption fetch is tried
const DefaultMaxAttempts = 8

// DefaultMaxCaptionBytes bounds how much of a caption response is accepted
const DefaultMaxCaptionBytes = 32 << 20

// HTTPDoer executes HTTP requests
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// JitterFunc returns a random offset in backoff units, uniform in [0.5, 2.0)
type JitterFunc func() float64

// browserHeaders keep YouTube's bot heuristics from rejecting caption requests
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://www.youtube.com/",
	"Origin":          "https://www.youtube.com",
	"Connection":      "keep-alive",
}

// errRateLimited marks a 429 response as worth another attempt
var errRateLimited = errors.New("rate-limited")

// Fetcher downloads caption payloads, backing off on HTTP 429
type Fetcher struct {
	client      HTTPDoer
	maxAttempts int
	maxBytes    int64
	timeout     time.Duration
	unit        time.Duration
	jitter      JitterFunc
	notify      backoff.Notify
	logger      *slog.Logger
}

// FetcherOption customizes a Fetcher
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the transport used for every attempt
func WithHTTPClient(client HTTPDoer) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithMaxAttempts sets the retry budget
func WithMaxAttempts(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithMaxCaptionBytes sets the largest payload Fetch accepts
func WithMaxCaptionBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithAttemptTimeout bounds each individual request
func WithAttemptTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithBackoffUnit scales the backoff schedule; waits are 2^attempt+jitter units
func WithBackoffUnit(unit time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if unit > 0 {
			f.unit = unit
		}
	}
}

// WithJitter replaces the random backoff offset
func WithJitter(jitter JitterFunc) FetcherOption {
	return func(f *Fetcher) {
		f.jitter = jitter
	}
}

// WithRetryNotify is called with the wait before every retry, after it is logged
func WithRetryNotify(notify backoff.Notify) FetcherOption {
	return func(f *Fetcher) {
		f.notify = notify
	}
}

// WithFetchLogger sets the logger used for retry notices, overriding the one carried by ctx
func WithFetchLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a fetcher with browser-like defaults
func NewFetcher(options ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:      http.DefaultClient,
		maxAttempts: DefaultMaxAttempts,
		maxBytes:    DefaultMaxCaptionBytes,
		timeout:     30 * time.Second,
		unit:        time.Second,
		jitter:      defaultJitter,
	}
	for _, option := range options {
		option(f)
	}
	return f
}

// Fetch GETs url and returns the body of the first 200 response.
// Only 429 is retried; any other status fails immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		status, body, err := f.attempt(ctx, url)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("fetching captions: %w", err))
		}
		switch status {
		case http.StatusOK:
			return body, nil
		case http.StatusTooManyRequests:
			return nil, errRateLimited
		default:
			return nil, backoff.Permanent(&HTTPError{Status: status, Attempt: attempt})
		}
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&captionBackOff{unit: f.unit, jitter: f.jitter}),
		backoff.WithMaxTries(uint(f.maxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(_ error, wait time.Duration) {
			f.log(ctx).Warn("rate-limited while fetching captions",
				slog.Int("attempt", attempt),
				slog.Duration("retry_in", wait.Round(f.unit/10)))
			if f.notify != nil {
				f.notify(errRateLimited, wait)
			}
		}),
	)
	switch {
	case err == nil:
		return body, nil
	case errors.Is(err, errRateLimited):
		return nil, &FetchExhaustedError{Attempts: attempt}
	default:
		return nil, err
	}
}

func (f *Fetcher) log(ctx context.Context) *slog.Logger {
	if f.logger != nil {
		return f.logger
	}
	return LoggerFrom(ctx)
}

// attempt performs one GET and drains the body
func (f *Fetcher) attempt(ctx context.Context, url string) (int, []byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return resp.StatusCode, nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return 0, nil, fmt.Errorf("%w: more than %d bytes", ErrCaptionPayloadTooLarge, f.maxBytes)
	}
	return resp.StatusCode, body, nil
}

// captionBackOff waits 2^i + jitter units before retry i
type captionBackOff struct {
	unit    time.Duration
	jitter  JitterFunc
	retries int
}

func (b *captionBackOff) NextBackOff() time.Duration {
	wait := backoffIn(b.unit, b.retries, b.jitter())
	b.retries++
	return wait
}

func (b *captionBackOff) Reset() {
	b.retries = 0
}

// Backoff returns 2^attempt seconds plus jitter seconds
func Backoff(attempt int, jitter float64) time.Duration {
	return backoffIn(time.Second, attempt, jitter)
}

func backoffIn(unit time.Duration, attempt int, jitter float64) time.Duration {
	return time.Duration((math.Pow(2, float64(attempt)) + jitter) * float64(unit))
}

func defaultJitter() float64 {
	return 0.5 + rand.Float64()*1.5
}
