package driven

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// ExclusionStore persists the privacy skip list.
// Excluded records are dropped during ingestion even when the vendor
// keeps returning them.
type ExclusionStore interface {
	// Add stores an exclusion. Adding an existing pair updates the reason.
	Add(ctx context.Context, exclusion domain.Exclusion) error

	// Remove deletes an exclusion. Removing an absent pair is not an error.
	Remove(ctx context.Context, source, nativeID string) error

	// IsExcluded reports whether a record is on the skip list.
	IsExcluded(ctx context.Context, source, nativeID string) (bool, error)

	// List returns all exclusions, newest first.
	List(ctx context.Context) ([]domain.Exclusion, error)
}
