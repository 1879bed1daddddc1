package connectors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// RateLimitError reports a vendor refusing requests over quota.
// RetryAt is when the vendor expects requests to succeed again.
type RateLimitError struct {
	Source  string
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limit exceeded, retry at %s", e.Source, e.RetryAt.Format(time.RFC3339))
}

// Unwrap lets errors.Is match domain.ErrRateLimited.
func (e *RateLimitError) Unwrap() error { return domain.ErrRateLimited }

// APIError carries a vendor's non-2xx response.
type APIError struct {
	Source     string
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: API error %d: %s (URL: %s)", e.Source, e.StatusCode, e.Message, e.URL)
}

// statusIs reports whether err is an APIError with one of the given
// status codes.
func statusIs(err error, codes ...int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return true
		}
	}
	return false
}

// IsRateLimited reports whether err came from a vendor rate limit.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}

// IsUnauthorized reports whether the vendor rejected the API key.
func IsUnauthorized(err error) bool {
	return statusIs(err, http.StatusUnauthorized, http.StatusForbidden)
}

// IsNotFound reports whether the vendor said the resource is gone.
func IsNotFound(err error) bool {
	return statusIs(err, http.StatusNotFound)
}
