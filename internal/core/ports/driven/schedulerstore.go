package driven

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// SchedulerStore persists background job state and execution history so
// the sync cadence survives restarts.
type SchedulerStore interface {
	// Job returns the job with the given ID, or nil when none exists.
	Job(ctx context.Context, id string) (*domain.SyncJob, error)

	// Jobs returns every stored job.
	Jobs(ctx context.Context) ([]domain.SyncJob, error)

	// PutJob inserts or replaces a job keyed by its ID.
	PutJob(ctx context.Context, job *domain.SyncJob) error

	// DeleteJob removes a job and leaves its outcomes in place.
	DeleteJob(ctx context.Context, id string) error

	// RecordOutcome appends one execution record.
	RecordOutcome(ctx context.Context, outcome *domain.JobOutcome) error

	// Outcomes returns up to limit executions of a job, newest first.
	Outcomes(ctx context.Context, jobID string, limit int) ([]domain.JobOutcome, error)

	// TrimOutcomes drops all but the newest keep outcomes of a job.
	TrimOutcomes(ctx context.Context, jobID string, keep int) error
}
