// Package mock provides a deterministic embedding service for tests and
// offline use. The same text always produces the same unit vector, so
// distance ordering is reproducible without a live model.
package mock

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService derives vectors from a hash of the input text.
type EmbeddingService struct {
	dims int

	// EmbedErr, when set, is returned by every Embed call.
	// Lets tests exercise embedding failure paths.
	EmbedErr error
}

// NewEmbeddingService creates a mock embedder with the given dimensions.
func NewEmbeddingService(dims int) *EmbeddingService {
	if dims <= 0 {
		dims = 384
	}
	return &EmbeddingService{dims: dims}
}

// Embed generates a deterministic unit vector for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if s.EmbedErr != nil {
		return nil, s.EmbedErr
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: cannot embed empty text", domain.ErrInvalidInput)
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()

	vec := make([]float32, s.dims)
	var norm float64
	for i := range vec {
		// splitmix64 step for well-spread deterministic values
		state += 0x9e3779b97f4a7c15
		z := state
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31
		v := float64(int64(z%2000)-1000) / 1000.0
		vec[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec, nil
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embedding, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dims
}

// ModelName returns the mock model name.
func (s *EmbeddingService) ModelName() string {
	return "mock"
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
