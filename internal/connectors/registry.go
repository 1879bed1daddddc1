package connectors

import (
	"fmt"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

var _ driven.ConnectorRegistry = (*Registry)(nil)

// Registry resolves connectors by source name.
type Registry struct {
	bySource map[string]driven.Connector
	order    []string
}

// NewRegistry creates an empty connector registry.
func NewRegistry() *Registry {
	return &Registry{
		bySource: make(map[string]driven.Connector),
	}
}

// Register adds a connector, replacing any previous one for its source.
func (r *Registry) Register(c driven.Connector) {
	source := c.Source()
	if _, exists := r.bySource[source]; !exists {
		r.order = append(r.order, source)
	}
	r.bySource[source] = c
}

// Get returns the connector for a source.
func (r *Registry) Get(source string) (driven.Connector, error) {
	c, ok := r.bySource[source]
	if !ok {
		return nil, fmt.Errorf("%w: no connector for source %q", domain.ErrUnsupportedType, source)
	}
	return c, nil
}

// Sources lists registered source names in registration order.
func (r *Registry) Sources() []string {
	return append([]string(nil), r.order...)
}

// Close closes all registered connectors, returning the first error.
func (r *Registry) Close() error {
	var firstErr error
	for _, source := range r.order {
		if err := r.bySource[source].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
