package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

// schedulerStore persists sync job state in the sync_jobs and
// job_outcomes tables.
type schedulerStore struct {
	store *Store
}

var _ driven.SchedulerStore = (*schedulerStore)(nil)

const syncJobColumns = "id, every_seconds, enabled, due, last_started, last_success, last_error"

func (s *schedulerStore) Job(ctx context.Context, id string) (*domain.SyncJob, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT "+syncJobColumns+" FROM sync_jobs WHERE id = ?", id)

	job, err := scanSyncJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading sync job: %w", err)
	}
	return job, nil
}

func (s *schedulerStore) Jobs(ctx context.Context) ([]domain.SyncJob, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT "+syncJobColumns+" FROM sync_jobs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing sync jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.SyncJob //nolint:prealloc // size unknown from query
	for rows.Next() {
		job, err := scanSyncJob(rows)
		if err != nil {
			return nil, fmt.Errorf("reading sync job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sync jobs: %w", err)
	}
	return jobs, nil
}

func (s *schedulerStore) PutJob(ctx context.Context, job *domain.SyncJob) error {
	if job == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_jobs (id, every_seconds, enabled, due, last_started, last_success, last_error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			every_seconds = excluded.every_seconds,
			enabled = excluded.enabled,
			due = excluded.due,
			last_started = excluded.last_started,
			last_success = excluded.last_success,
			last_error = excluded.last_error
	`, job.ID, int64(job.Every.Seconds()), boolToInt(job.Enabled),
		formatNullableTime(job.Due), formatNullableTime(job.LastStarted),
		formatNullableTime(job.LastSuccess), nullString(job.LastError))
	if err != nil {
		return fmt.Errorf("writing sync job: %w", err)
	}
	return nil
}

func (s *schedulerStore) DeleteJob(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM sync_jobs WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting sync job: %w", err)
	}
	return nil
}

func (s *schedulerStore) RecordOutcome(ctx context.Context, outcome *domain.JobOutcome) error {
	if outcome == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO job_outcomes (job_id, started, finished, error, added)
		VALUES (?, ?, ?, ?, ?)
	`, outcome.JobID,
		outcome.Started.Format(time.RFC3339),
		outcome.Finished.Format(time.RFC3339),
		nullString(outcome.Err),
		outcome.Added)
	if err != nil {
		return fmt.Errorf("recording job outcome: %w", err)
	}
	return nil
}

func (s *schedulerStore) Outcomes(ctx context.Context, jobID string, limit int) ([]domain.JobOutcome, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT job_id, started, finished, error, added
		FROM job_outcomes
		WHERE job_id = ?
		ORDER BY started DESC, rowid DESC
		LIMIT ?
	`, jobID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing job outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []domain.JobOutcome //nolint:prealloc // size unknown from query
	for rows.Next() {
		var o domain.JobOutcome
		var started, finished string
		var errMsg sql.NullString
		if err := rows.Scan(&o.JobID, &started, &finished, &errMsg, &o.Added); err != nil {
			return nil, fmt.Errorf("reading job outcome: %w", err)
		}
		o.Started = parseStoredTime(started)
		o.Finished = parseStoredTime(finished)
		o.Err = errMsg.String
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing job outcomes: %w", err)
	}
	return outcomes, nil
}

func (s *schedulerStore) TrimOutcomes(ctx context.Context, jobID string, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM job_outcomes
		WHERE job_id = ?1 AND rowid NOT IN (
			SELECT rowid FROM job_outcomes
			WHERE job_id = ?1
			ORDER BY started DESC, rowid DESC
			LIMIT ?2
		)
	`, jobID, keep)
	if err != nil {
		return fmt.Errorf("trimming job outcomes: %w", err)
	}
	return nil
}

func scanSyncJob(row rowScanner) (*domain.SyncJob, error) {
	var job domain.SyncJob
	var everySeconds int64
	var enabled int
	var due, lastStarted, lastSuccess, lastError sql.NullString

	if err := row.Scan(&job.ID, &everySeconds, &enabled,
		&due, &lastStarted, &lastSuccess, &lastError); err != nil {
		return nil, err
	}

	job.Every = time.Duration(everySeconds) * time.Second
	job.Enabled = enabled == 1
	job.Due = parseNullableTime(due)
	job.LastStarted = parseNullableTime(lastStarted)
	job.LastSuccess = parseNullableTime(lastSuccess)
	job.LastError = lastError.String

	return &job, nil
}
