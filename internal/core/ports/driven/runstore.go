package driven

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// RunStore persists the ingestion run ledger.
type RunStore interface {
	// SaveRun appends a completed run and its per-source reports.
	SaveRun(ctx context.Context, report *domain.SyncReport) error

	// ListRuns returns recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.SyncReport, error)

	// GetRun retrieves one run by ID. Returns ErrNotFound when absent.
	GetRun(ctx context.Context, runID string) (*domain.SyncReport, error)
}
