// Package ollama embeds text with a locally running Ollama instance.
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

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*Embedder)(nil)

// Defaults used when the config leaves a field unset. The dimension
// count follows the default model; overriding one usually means
// overriding both.
const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "all-minilm"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 384
)

// Config holds connection settings for a local Ollama instance.
type Config struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

// Embedder generates vectors through Ollama's /api/embed endpoint,
// which accepts a batch of inputs in one round trip.
type Embedder struct {
	http  *http.Client
	base  string
	model string
	dims  int
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// NewEmbedder builds an Embedder, filling unset config fields with
// the package defaults.
func NewEmbedder(cfg Config) *Embedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &Embedder{
		http:  &http.Client{Timeout: cfg.Timeout},
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		model: cfg.Model,
		dims:  cfg.Dimensions,
	}
}

// Embed returns the vector for a single text. It is a batch of one.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds all texts in a single request. Blank texts are
// rejected up front so a zero vector never slips into the index.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: cannot embed blank text (input %d)", domain.ErrInvalidInput, i)
		}
	}

	payload, err := json.Marshal(embedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+"/api/embed", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %w", domain.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ollama status %d: %s",
			domain.ErrEmbedding, resp.StatusCode, readBody(resp.Body))
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode embed response: %w", domain.ErrEmbedding, err)
	}

	if len(decoded.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: ollama returned %d vectors for %d inputs",
			domain.ErrEmbedding, len(decoded.Embeddings), len(texts))
	}
	for i, vec := range decoded.Embeddings {
		if len(vec) != e.dims {
			return nil, fmt.Errorf("%w: model %s returned %d dimensions for input %d, want %d",
				domain.ErrEmbedding, e.model, len(vec), i, e.dims)
		}
	}

	return decoded.Embeddings, nil
}

// Dimensions returns the configured vector size.
func (e *Embedder) Dimensions() int { return e.dims }

// ModelName returns the model the embedder was configured with.
func (e *Embedder) ModelName() string { return e.model }

// Ping hits /api/tags, which answers without loading a model.
func (e *Embedder) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.base+"/api/tags", http.NoBody)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}

	resp, err := e.http.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable at %s: %w", e.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama status %d: %s", resp.StatusCode, readBody(resp.Body))
	}
	return nil
}

// Close is a no-op; the HTTP client holds no persistent state.
func (e *Embedder) Close() error { return nil }

// readBody drains an error response for inclusion in a message,
// capped so a huge body cannot blow up the error string.
func readBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return "<unreadable body>"
	}
	return strings.TrimSpace(string(body))
}
