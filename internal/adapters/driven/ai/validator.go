package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// PingEmbedding validates an embedding service is reachable.
// A nil service is reported as unavailable.
func PingEmbedding(svc driven.EmbeddingService) error {
	if svc == nil {
		return domain.ErrEmbeddingUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s unreachable: %w",
			domain.ErrEmbeddingUnavailable, svc.ModelName(), err)
	}
	return nil
}

// PingLLM validates an LLM service is reachable.
// A nil service means summaries are not configured; that is not an error here.
func PingLLM(svc driven.LLMService) error {
	if svc == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s unreachable: %w",
			domain.ErrLLMUnavailable, svc.ModelName(), err)
	}
	return nil
}
