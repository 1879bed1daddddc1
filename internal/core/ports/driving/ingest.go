package driving

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// IngestOrchestrator coordinates record ingestion from vendor sources.
type IngestOrchestrator interface {
	// Sync ingests new records for a single source and returns its report.
	Sync(ctx context.Context, source string, opts SyncOptions) (*domain.SyncReport, error)

	// SyncAll ingests new records for every registered source.
	// One failing source does not abort the others.
	SyncAll(ctx context.Context, opts SyncOptions) (*domain.SyncReport, error)

	// Status returns the progress of a running sync for a source.
	Status(ctx context.Context, source string) (*SyncStatus, error)
}

// SyncOptions bounds an ingestion run.
type SyncOptions struct {
	// Days is the lookback window when a source has no cursor yet.
	Days int

	// Limit caps records fetched per source. Zero means no cap.
	Limit int

	// Force ingests records even when their IDs are already stored.
	Force bool

	// Trigger records what started the run ("cli", "scheduler", "mcp", "tui").
	Trigger string
}

// SyncStatus is a point-in-time snapshot of one source's sync.
type SyncStatus struct {
	// Source names the vendor being synced.
	Source string

	// Running is true while the run is still in flight.
	Running bool

	// RecordsProcessed counts records handled so far.
	RecordsProcessed int

	// ErrorCount counts records that failed so far.
	ErrorCount int
}
