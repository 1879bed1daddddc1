// Package openai embeds text through the OpenAI embeddings API or
// any server that speaks the same dialect.
package openai

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

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second

	fallbackDimensions = 1536
)

// knownDimensions maps OpenAI embedding models to their native
// vector sizes, used when the config does not pin one.
var knownDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds connection settings for an OpenAI-compatible API.
// BaseURL may point at Azure OpenAI or a local inference server.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	Dimensions int
}

// Embedder generates vectors through the /embeddings endpoint. It
// sends whole batches in one request; the API returns vectors keyed
// by input index, not necessarily in order.
type Embedder struct {
	http   *http.Client
	base   string
	apiKey string
	model  string
	dims   int
}

type embedRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewEmbedder builds an Embedder. The API key is the only field
// without a usable default.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai embedding API key is not set", domain.ErrInvalidConfiguration)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Embedder{
		http:   &http.Client{Timeout: cfg.Timeout},
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		dims:   resolveDimensions(cfg.Model, cfg.Dimensions),
	}, nil
}

// resolveDimensions picks the vector size: an explicit override wins,
// then the model's known native size, then the common 1536.
func resolveDimensions(model string, override int) int {
	if override > 0 {
		return override
	}
	if dims, ok := knownDimensions[model]; ok {
		return dims
	}
	return fallbackDimensions
}

// truncatable reports whether the model accepts a dimensions
// parameter; only the text-embedding-3 family does.
func (e *Embedder) truncatable() bool {
	return strings.HasPrefix(e.model, "text-embedding-3-")
}

// Embed returns the vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds all texts in one request. Blank texts fail the
// whole batch before anything is sent.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: cannot embed blank text (input %d)", domain.ErrInvalidInput, i)
		}
	}

	body := embedRequest{Model: e.model, Input: texts}
	if e.truncatable() {
		body.Dimensions = e.dims
	}

	decoded, err := e.post(ctx, body)
	if err != nil {
		return nil, err
	}

	if len(decoded.Data) != len(texts) {
		return nil, fmt.Errorf("%w: openai returned %d vectors for %d inputs",
			domain.ErrEmbedding, len(decoded.Data), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for _, item := range decoded.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("%w: openai returned out-of-range index %d", domain.ErrEmbedding, item.Index)
		}
		vecs[item.Index] = item.Embedding
	}

	return vecs, nil
}

// post sends the embed request and decodes the response, folding API
// error payloads and non-200 statuses into ErrEmbedding.
func (e *Embedder) post(ctx context.Context, body embedRequest) (*embedResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.base+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: openai: %w", domain.ErrEmbedding, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read embed response: %w", domain.ErrEmbedding, err)
	}

	var decoded embedResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: openai status %d", domain.ErrEmbedding, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: decode embed response: %w", domain.ErrEmbedding, err)
	}

	if decoded.Error != nil {
		return nil, fmt.Errorf("%w: openai: %s", domain.ErrEmbedding, decoded.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: openai status %d", domain.ErrEmbedding, resp.StatusCode)
	}

	return &decoded, nil
}

// Dimensions returns the configured vector size.
func (e *Embedder) Dimensions() int { return e.dims }

// ModelName returns the model the embedder was configured with.
func (e *Embedder) ModelName() string { return e.model }

// Ping lists models, which verifies both reachability and the key
// without paying for inference.
func (e *Embedder) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.base+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.http.Do(req)
	if err != nil {
		return fmt.Errorf("openai unreachable at %s: %w", e.base, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openai status %d", resp.StatusCode)
	}
	return nil
}

// Close is a no-op; the HTTP client holds no persistent state.
func (e *Embedder) Close() error { return nil }
