// Package ollama produces completions with a locally running Ollama
// instance.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.LLMService = (*Client)(nil)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second

	// Summaries should be stable across runs, so generation runs
	// close to greedy.
	temperature = 0.3
)

// Config holds connection settings for a local Ollama instance.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client completes prompts through Ollama's non-streaming
// /api/generate endpoint.
type Client struct {
	http  *http.Client
	base  string
	model string
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	System  string          `json:"system,omitempty"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// New builds a Client, filling unset config fields with the package
// defaults.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		http:  &http.Client{Timeout: cfg.Timeout},
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		model: cfg.Model,
	}
}

// Complete runs a single non-streaming generation with the given
// system and user prompts.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		System:  system,
		Options: generateOptions{Temperature: temperature},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode, readBody(resp.Body))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	return decoded.Response, nil
}

// ModelName returns the model the client was configured with.
func (c *Client) ModelName() string { return c.model }

// Ping hits /api/tags, which answers without loading a model.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable at %s: %w", c.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama status %d: %s", resp.StatusCode, readBody(resp.Body))
	}
	return nil
}

// Close is a no-op; the HTTP client holds no persistent state.
func (c *Client) Close() error { return nil }

// readBody drains an error response for inclusion in a message,
// capped so a huge body cannot blow up the error string.
func readBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return "<unreadable body>"
	}
	return strings.TrimSpace(string(body))
}
