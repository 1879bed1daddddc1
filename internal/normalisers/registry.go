package normalisers

import (
	"context"
	"fmt"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches raw records to the normaliser for their source.
type Registry struct {
	bySource map[string]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		bySource: make(map[string]driven.Normaliser),
	}
}

// Register adds a normaliser, replacing any previous one for its source.
func (r *Registry) Register(n driven.Normaliser) {
	r.bySource[n.Source()] = n
}

// Normalise transforms a raw record using the normaliser registered for
// its source.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawRecord) (*domain.Entry, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil record", domain.ErrInvalidInput)
	}
	n, ok := r.bySource[raw.Source]
	if !ok {
		return nil, fmt.Errorf("%w: no normaliser for source %q", domain.ErrUnsupportedType, raw.Source)
	}
	return n.Normalise(ctx, raw)
}

// Sources returns the sources with a registered normaliser.
func (r *Registry) Sources() []string {
	sources := make([]string, 0, len(r.bySource))
	for source := range r.bySource {
		sources = append(sources, source)
	}
	return sources
}
