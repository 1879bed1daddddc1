package driven

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// PostProcessor transforms normalised entries before they are embedded.
// Processors are chained in a pipeline (e.g., chunking long transcripts).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes the entries produced so far and returns the
	// replacement set. The first processor in a pipeline receives the
	// single normalised entry.
	Process(ctx context.Context, entries []domain.Entry) ([]domain.Entry, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the entry through all processors in order and
	// returns the final set of entries to store.
	Process(ctx context.Context, entry domain.Entry) ([]domain.Entry, error)
}
