package connectors

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

func TestNewRateLimiter_KnownSource(t *testing.T) {
	limiter := NewRateLimiter(domain.SourceLimitless)
	require.NotNil(t, limiter)
	assert.Equal(t, -1, limiter.Remaining())
}

func TestNewRateLimiter_UnknownSourceFallsBack(t *testing.T) {
	limiter := NewRateLimiter("somewhere-else")
	require.NotNil(t, limiter)

	// The fallback bucket still admits a request promptly.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, limiter.Wait(ctx))
}

func TestRateLimiter_Wait_WithinBurst(t *testing.T) {
	limiter := NewRateLimiter(domain.SourceBee)

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestRateLimiter_Wait_CancelledContext(t *testing.T) {
	limiter := NewRateLimiter(domain.SourceBee)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiter_CheckResponse_TooManyRequests(t *testing.T) {
	limiter := NewRateLimiter(domain.SourceLimitless)

	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{HeaderRetryAfter: []string{"15"}},
	}

	err := limiter.CheckResponse(resp)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, domain.SourceLimitless, rateErr.Source)
	assert.WithinDuration(t, time.Now().Add(15*time.Second), rateErr.RetryAt, time.Second)
	assert.WithinDuration(t, rateErr.RetryAt, limiter.RetryAt(), time.Second)
}

func TestRateLimiter_CheckResponse_DefaultBackoff(t *testing.T) {
	limiter := NewRateLimiter(domain.SourceBee)

	resp := &http.Response{
		StatusCode: http.StatusTooManyRequests,
		Header:     http.Header{},
	}

	err := limiter.CheckResponse(resp)
	require.Error(t, err)

	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.WithinDuration(t, time.Now().Add(defaultBackoff), rateErr.RetryAt, time.Second)
}

func TestRateLimiter_CheckResponse_UpdatesRemaining(t *testing.T) {
	limiter := NewRateLimiter(domain.SourceLimitless)

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
	}
	resp.Header.Set(HeaderRateRemaining, "42")

	require.NoError(t, limiter.CheckResponse(resp))
	assert.Equal(t, 42, limiter.Remaining())
}

func TestRateLimiter_CheckResponse_NilResponse(t *testing.T) {
	limiter := NewRateLimiter(domain.SourceLimitless)
	assert.NoError(t, limiter.CheckResponse(nil))
}
