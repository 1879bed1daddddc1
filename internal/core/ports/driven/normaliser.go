package driven

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// Normaliser transforms raw vendor records into archive entries.
// Each vendor has its own payload shape and its own normaliser.
type Normaliser interface {
	// Source returns the vendor identifier this normaliser handles.
	Source() string

	// Normalise extracts the entry from a raw record. The returned
	// entry carries the canonical ID and a Timestamp parsed from the
	// vendor payload. Malformed payloads and unparseable timestamps
	// fail; a record that merely lacks text or a timestamp yields an
	// entry with those fields empty, and the caller decides whether
	// to skip it.
	Normalise(ctx context.Context, raw *domain.RawRecord) (*domain.Entry, error)
}

// NormaliserRegistry selects the normaliser for a record's source.
type NormaliserRegistry interface {
	// Normalise transforms a raw record using the registered normaliser
	// for its source. Returns ErrUnsupportedType for unknown sources.
	Normalise(ctx context.Context, raw *domain.RawRecord) (*domain.Entry, error)

	// Register adds a normaliser to the registry.
	Register(n Normaliser)
}
