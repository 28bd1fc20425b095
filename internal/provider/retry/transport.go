// Package retry provides an http.RoundTripper that absorbs 429 responses.
package retry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultAttempts = 5
	DefaultFallback = 5 * time.Second
)

// Options configures a Transport.
type Options struct {
	// Attempts is the total number of tries, including the first.
	// Zero selects DefaultAttempts.
	Attempts int
	// Fallback is the wait used when a 429 carries no usable Retry-After.
	// Zero selects DefaultFallback; a negative value retries immediately.
	Fallback time.Duration
	// Timeout bounds each attempt, from sending the request until its
	// response body is closed. Waits between attempts do not count. Zero
	// means no limit.
	Timeout time.Duration
	// Limiter paces every attempt. nil disables pacing.
	Limiter *rate.Limiter
	Logger  *zap.Logger

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// Transport retries requests that are answered with 429 Too Many Requests.
// Other responses, and transport errors, are returned from the first
// attempt unchanged. When the budget runs out the last 429 is returned.
type Transport struct {
	base     http.RoundTripper
	attempts int
	fallback time.Duration
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
	now      func() time.Time
}

// NewTransport wraps base. A nil base uses http.DefaultTransport.
func NewTransport(base http.RoundTripper, opts Options) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	t := &Transport{
		base:     base,
		attempts: opts.Attempts,
		fallback: opts.Fallback,
		timeout:  opts.Timeout,
		limiter:  opts.Limiter,
		logger:   opts.Logger,
		sleep:    opts.sleep,
		now:      opts.now,
	}
	if t.attempts <= 0 {
		t.attempts = DefaultAttempts
	}
	switch {
	case t.fallback == 0:
		t.fallback = DefaultFallback
	case t.fallback < 0:
		t.fallback = 0
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	if t.sleep == nil {
		t.sleep = sleepContext
	}
	if t.now == nil {
		t.now = time.Now
	}
	return t
}

// NewClient returns an http.Client whose transport retries 429s. timeout
// applies to each attempt; the client itself has no overall deadline, so a
// full retry budget is never cut short.
func NewClient(timeout time.Duration, opts Options) *http.Client {
	opts.Timeout = timeout
	return &http.Client{Transport: NewTransport(http.DefaultTransport, opts)}
}

// PerMinute builds a limiter allowing rpm requests per minute. rpm <= 0
// returns nil.
func PerMinute(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	getBody, buffered, err := replayableBody(req)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		actx, cancel := ctx, context.CancelFunc(func() {})
		if t.timeout > 0 {
			actx, cancel = context.WithTimeout(ctx, t.timeout)
		}

		r := req
		if attempt > 1 || buffered || t.timeout > 0 {
			r = req.Clone(actx)
			if getBody != nil && (attempt > 1 || buffered) {
				body, err := getBody()
				if err != nil {
					cancel()
					return nil, fmt.Errorf("replay request body: %w", err)
				}
				r.Body = body
			}
		}

		resp, err := t.base.RoundTrip(r)
		if err != nil {
			cancel()
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= t.attempts {
			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		}

		delay, ok := parseRetryAfter(resp.Header.Get("Retry-After"), t.now())
		if !ok {
			delay = t.fallback
		}
		drain(resp.Body)
		cancel()

		t.logger.Warn("rate limited, retrying",
			zap.String("host", req.URL.Host),
			zap.Duration("wait", delay),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", t.attempts-1),
		)
		if err := t.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

// replayableBody returns a function producing the request body for each
// attempt. Bodies without GetBody are buffered once; buffered reports
// that the original body has been consumed.
func replayableBody(req *http.Request) (getBody func() (io.ReadCloser, error), buffered bool, err error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, false, nil
	}
	if req.GetBody != nil {
		return req.GetBody, false, nil
	}
	data, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, false, fmt.Errorf("buffer request body: %w", err)
	}
	return func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, true, nil
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(v); err == nil {
		d := at.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// cancelOnClose releases an attempt's deadline once the caller is done
// with the response.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func drain(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
