package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

// outcomesKept bounds the per-job history retained in the store.
const outcomesKept = 100

// schedulerTick is how often the loop checks whether the job is due.
const schedulerTick = time.Minute

// Scheduler drives the recurring background sync. Job state lives in a
// SchedulerStore so the cadence survives restarts; the loop itself holds
// no durable state.
type Scheduler struct {
	cfg    domain.SchedulerConfig
	store  driven.SchedulerStore
	ingest driving.IngestOrchestrator

	mu      sync.Mutex
	stopCh  chan struct{}
	syncing bool
	wg      sync.WaitGroup
}

// NewScheduler wires the scheduler; Start must still be called.
func NewScheduler(cfg domain.SchedulerConfig, store driven.SchedulerStore, ingest driving.IngestOrchestrator) *Scheduler {
	return &Scheduler{cfg: cfg, store: store, ingest: ingest}
}

// Start restores the job record and blocks in the tick loop until Stop
// is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stopCh != nil {
		s.mu.Unlock()
		return nil
	}
	s.stopCh = make(chan struct{})
	stop := s.stopCh
	s.mu.Unlock()

	if err := s.restoreJob(ctx); err != nil {
		logger.Warn("Scheduler could not restore job state: %v", err)
	}

	s.poll(ctx)

	ticker := time.NewTicker(schedulerTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// Stop ends the loop and waits for an in-flight sync to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.stopCh == nil {
		s.mu.Unlock()
		return nil
	}
	close(s.stopCh)
	s.stopCh = nil
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// restoreJob creates the sync job on first run, or carries the stored
// cadence forward, re-anchoring Due only when the interval changed.
func (s *Scheduler) restoreJob(ctx context.Context) error {
	every := s.cfg.Interval
	if every <= 0 {
		every = domain.DefaultSyncInterval
	}

	job, err := s.store.Job(ctx, domain.JobBackgroundSync)
	if err != nil {
		return err
	}
	if job == nil {
		job = &domain.SyncJob{
			ID:  domain.JobBackgroundSync,
			Due: time.Now().Add(every),
		}
	} else if job.Every != every {
		job.Due = time.Now().Add(every)
	}
	job.Every = every
	job.Enabled = true

	return s.store.PutJob(ctx, job)
}

// poll runs the job when it is due and no sync is already in flight.
func (s *Scheduler) poll(ctx context.Context) {
	job, err := s.store.Job(ctx, domain.JobBackgroundSync)
	if err != nil {
		logger.Warn("Scheduler could not read job state: %v", err)
		return
	}
	if job == nil || !job.Enabled {
		return
	}
	if job.Due.After(time.Now()) {
		return
	}

	s.mu.Lock()
	if s.syncing {
		s.mu.Unlock()
		return
	}
	s.syncing = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.syncing = false
			s.mu.Unlock()
		}()
		s.execute(ctx, job)
	}()
}

// execute performs one sync and persists the job state and outcome.
// Store write failures are logged, not fatal: the next tick retries.
func (s *Scheduler) execute(ctx context.Context, job *domain.SyncJob) {
	outcome := domain.JobOutcome{
		JobID:   job.ID,
		Started: time.Now(),
	}

	added, err := s.syncAll(ctx)
	outcome.Finished = time.Now()
	outcome.Added = added

	job.LastStarted = outcome.Started
	job.Due = outcome.Finished.Add(job.Every)
	if err != nil {
		outcome.Err = err.Error()
		job.LastError = err.Error()
	} else {
		job.LastError = ""
		job.LastSuccess = outcome.Finished
	}

	if err := s.store.PutJob(ctx, job); err != nil {
		logger.Warn("Scheduler could not save job state: %v", err)
	}
	if err := s.store.RecordOutcome(ctx, &outcome); err != nil {
		logger.Warn("Scheduler could not record outcome: %v", err)
	}
	if err := s.store.TrimOutcomes(ctx, job.ID, outcomesKept); err != nil {
		logger.Warn("Scheduler could not trim outcome history: %v", err)
	}
}

// syncAll runs the orchestrator over every source. Per-record failures
// surface as a job error so they show in history, keeping the count of
// entries that did land.
func (s *Scheduler) syncAll(ctx context.Context) (int, error) {
	if s.ingest == nil {
		return 0, nil
	}

	report, err := s.ingest.SyncAll(ctx, driving.SyncOptions{Trigger: "scheduler"})
	if err != nil {
		return 0, err
	}
	if report.TotalErrors() > 0 {
		return report.TotalAdded(), fmt.Errorf("%d records failed: %s", report.TotalErrors(), firstReportError(report))
	}
	return report.TotalAdded(), nil
}

// firstReportError returns the first per-source failure in a run report.
func firstReportError(report *domain.SyncReport) string {
	for i := range report.Sources {
		if report.Sources[i].FirstError != "" {
			return report.Sources[i].FirstError
		}
	}
	return "unknown error"
}
