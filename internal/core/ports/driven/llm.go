package driven

import "context"

// LLMService provides language model completions for day summaries.
// This is an optional service - when nil, summaries are disabled.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI-compatible chat endpoints
type LLMService interface {
	// Complete produces a completion for a system prompt and user prompt.
	Complete(ctx context.Context, system, prompt string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
