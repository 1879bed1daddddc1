// Package ai builds embedding and LLM services from configuration.
package ai

import (
	"fmt"
	"os"
	"strings"

	mockembed "github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/embedding/mock"
	ollamaembed "github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/pensieve-labs/pensieve-cli/internal/adapters/driven/llm/openai"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

// Provider names accepted in configuration.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Configuration keys read by the factory.
const (
	keyEmbeddingProvider   = "embedding.provider"
	keyEmbeddingBaseURL    = "embedding.base_url"
	keyEmbeddingModel      = "embedding.model"
	keyEmbeddingDimensions = "embedding.dimensions"
	keyEmbeddingAPIKey     = "embedding.api_key"

	keyLLMProvider = "llm.provider"
	keyLLMBaseURL  = "llm.base_url"
	keyLLMModel    = "llm.model"
	keyLLMAPIKey   = "llm.api_key"
)

// CreateEmbeddingService builds the embedding service named by
// embedding.provider. The archive cannot operate without one, so an
// unset provider falls back to the local Ollama default rather than
// disabling embeddings.
func CreateEmbeddingService(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := normaliseProvider(cfg.String(keyEmbeddingProvider))
	if provider == "" {
		provider = ProviderOllama
	}

	switch provider {
	case ProviderOllama:
		return ollamaembed.NewEmbedder(ollamaembed.Config{
			BaseURL:    cfg.String(keyEmbeddingBaseURL),
			Model:      cfg.String(keyEmbeddingModel),
			Dimensions: cfg.Int(keyEmbeddingDimensions),
		}), nil

	case ProviderOpenAI:
		return openaiembed.NewEmbedder(openaiembed.Config{
			APIKey:     apiKey(cfg, keyEmbeddingAPIKey, "OPENAI_API_KEY"),
			BaseURL:    cfg.String(keyEmbeddingBaseURL),
			Model:      cfg.String(keyEmbeddingModel),
			Dimensions: cfg.Int(keyEmbeddingDimensions),
		})

	case ProviderMock:
		return mockembed.NewEmbeddingService(cfg.Int(keyEmbeddingDimensions)), nil

	case ProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not provide embeddings, use ollama or openai",
			domain.ErrInvalidConfiguration)

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrInvalidConfiguration, provider)
	}
}

// CreateLLMService builds the LLM service named by llm.provider.
// An unset provider returns (nil, nil): summaries are optional and
// callers treat a nil service as ErrLLMUnavailable.
func CreateLLMService(cfg driven.ConfigStore) (driven.LLMService, error) {
	provider := normaliseProvider(cfg.String(keyLLMProvider))
	if provider == "" {
		return nil, nil
	}

	switch provider {
	case ProviderOllama:
		return ollamallm.New(ollamallm.Config{
			BaseURL: cfg.String(keyLLMBaseURL),
			Model:   cfg.String(keyLLMModel),
		}), nil

	case ProviderOpenAI:
		return openaillm.New(openaillm.Config{
			APIKey:  apiKey(cfg, keyLLMAPIKey, "OPENAI_API_KEY"),
			BaseURL: cfg.String(keyLLMBaseURL),
			Model:   cfg.String(keyLLMModel),
		})

	case ProviderAnthropic:
		return anthropicllm.New(anthropicllm.Config{
			APIKey:  apiKey(cfg, keyLLMAPIKey, "ANTHROPIC_API_KEY"),
			BaseURL: cfg.String(keyLLMBaseURL),
			Model:   cfg.String(keyLLMModel),
		})

	default:
		return nil, fmt.Errorf("%w: unknown LLM provider %q",
			domain.ErrInvalidConfiguration, provider)
	}
}

// normaliseProvider lowercases and trims a configured provider name.
func normaliseProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

// apiKey reads a key from config, falling back to the environment.
func apiKey(cfg driven.ConfigStore, configKey, envVar string) string {
	if key := cfg.String(configKey); key != "" {
		return key
	}
	return os.Getenv(envVar)
}
