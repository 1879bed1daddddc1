package connectors

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// Rate limit headers the vendors are known to send.
const (
	HeaderRateRemaining = "X-RateLimit-Remaining"
	HeaderRateReset     = "X-RateLimit-Reset"
	HeaderRetryAfter    = "Retry-After"
)

// defaultBackoff applies when a 429 arrives without a Retry-After
// header.
const defaultBackoff = 30 * time.Second

// sourceRate returns the token bucket parameters for a vendor.
// Neither vendor publishes hard limits, so the known ones sit well
// below observed ceilings and anything unknown gets one request per
// second.
func sourceRate(source string) (perSecond float64, burst int) {
	switch source {
	case domain.SourceLimitless, domain.SourceBee:
		return 3.0, 5
	default:
		return 1.0, 1
	}
}

// RateLimiter paces requests to one vendor. A token bucket throttles
// proactively; 429 responses and quota headers push the next allowed
// time out reactively.
type RateLimiter struct {
	source string
	bucket *rate.Limiter

	mu        sync.Mutex
	notBefore time.Time
	remaining int
}

// NewRateLimiter builds a limiter paced for the given vendor.
func NewRateLimiter(source string) *RateLimiter {
	perSecond, burst := sourceRate(source)
	return &RateLimiter{
		source:    source,
		bucket:    rate.NewLimiter(rate.Limit(perSecond), burst),
		remaining: -1,
	}
}

// Wait blocks until the next request may be sent, honouring both the
// token bucket and any backoff a 429 imposed.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}
	return sleepUntil(ctx, r.RetryAt())
}

// CheckResponse folds a response's rate headers into the limiter and
// returns a RateLimitError when the vendor said 429.
func (r *RateLimiter) CheckResponse(resp *http.Response) error {
	if resp == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if n, ok := headerInt(resp.Header, HeaderRateRemaining); ok {
		r.remaining = n
	}
	if unix, ok := headerInt(resp.Header, HeaderRateReset); ok {
		r.notBefore = time.Unix(int64(unix), 0)
	}

	if resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	backoff := defaultBackoff
	if seconds, ok := headerInt(resp.Header, HeaderRetryAfter); ok {
		backoff = time.Duration(seconds) * time.Second
	}
	r.notBefore = time.Now().Add(backoff)

	return &RateLimitError{Source: r.source, RetryAt: r.notBefore}
}

// Remaining reports the vendor's last remaining-quota header, or -1
// before any response carried one.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// RetryAt reports when requests are expected to succeed again.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notBefore
}

func headerInt(h http.Header, key string) (int, bool) {
	raw := h.Get(key)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func sleepUntil(ctx context.Context, t time.Time) error {
	wait := time.Until(t)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
