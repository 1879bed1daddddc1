// Package driven declares the outbound ports: the interfaces the
// core expects infrastructure adapters to satisfy.
package driven

import "context"

// EmbeddingService turns text into fixed-size vectors. The archive
// cannot add or search entries without one. Backends include Ollama,
// OpenAI-compatible servers, and deterministic fakes for tests.
type EmbeddingService interface {
	// Embed returns the vector for one text. Empty or
	// whitespace-only text fails with ErrInvalidInput; a zero
	// vector is never returned silently.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds several texts at once. A batch of one and a
	// single Embed call yield the same vector.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector size the model produces. It must
	// match the index configuration.
	Dimensions() int

	// ModelName identifies the embedding model.
	ModelName() string

	// Ping checks reachability with a lightweight request, used at
	// startup before committing to ingestion.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
