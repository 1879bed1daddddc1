package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RetryDelay is the delay before retrying a failed request.
	RetryDelay = time.Second

	// UserAgent identifies this client to vendor APIs.
	UserAgent = "pensieve-cli"

	// maxErrorBody caps how much of an error response body is kept
	// for the error message.
	maxErrorBody = 2048
)

// Client is a rate-limited JSON API client shared by the vendor
// connectors. Each vendor supplies its base URL and API key header.
type Client struct {
	http      *http.Client
	limiter   *RateLimiter
	source    string
	baseURL   string
	keyHeader string
	apiKey    string
}

// NewClient creates a client for one vendor API.
func NewClient(source, baseURL, keyHeader, apiKey string) *Client {
	return &Client{
		http:      &http.Client{Timeout: DefaultTimeout},
		limiter:   NewRateLimiter(source),
		source:    source,
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyHeader: keyHeader,
		apiKey:    apiKey,
	}
}

// Limiter returns the client's rate limiter.
func (c *Client) Limiter() *RateLimiter {
	return c.limiter
}

// GetJSON performs a rate-limited GET and decodes the JSON response
// into out. Requests that fail with a 5xx status are retried once.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", c.source, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	body, retryable, err := c.do(ctx, reqURL)
	if err != nil && retryable {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(RetryDelay):
		}
		body, _, err = c.do(ctx, reqURL)
	}
	return body, err
}

// do performs one request. The second return reports whether the
// failure is worth a retry (transport errors and 5xx responses).
func (c *Client) do(ctx context.Context, reqURL string) ([]byte, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("%s: creating request: %w", c.source, err)
	}
	req.Header.Set(c.keyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%s: request failed: %w", c.source, err)
	}
	defer resp.Body.Close()

	if err := c.limiter.CheckResponse(resp); err != nil {
		return nil, false, err
	}

	if resp.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			Source:     c.source,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(message)),
			URL:        reqURL,
		}
		return nil, resp.StatusCode >= 500, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%s: reading response: %w", c.source, err)
	}
	return body, false, nil
}
