// Package postprocessors transforms normalised entries before they are
// stored, such as splitting long transcripts into chunks.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline runs an entry through a fixed chain of processors. Each step
// may fan one entry out into several (the chunker does), so the chain
// operates on slices after the first step.
type Pipeline struct {
	steps []driven.PostProcessor
}

// NewPipeline builds a pipeline that applies the steps in order.
func NewPipeline(steps ...driven.PostProcessor) *Pipeline {
	return &Pipeline{steps: steps}
}

// Process feeds entry through every step. An empty pipeline hands the
// entry back untouched.
func (p *Pipeline) Process(ctx context.Context, entry domain.Entry) ([]domain.Entry, error) {
	out := []domain.Entry{entry}
	for _, step := range p.steps {
		next, err := step.Process(ctx, out)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", step.Name(), err)
		}
		out = next
	}
	return out, nil
}
