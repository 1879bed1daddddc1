package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

var _ driving.IngestOrchestrator = (*IngestOrchestrator)(nil)

// IngestOrchestrator coordinates record ingestion from vendor sources
// into the archive. Each source runs the same pipeline: fetch, normalise,
// exclusion check, dedup, chunk, one batched store write. A failing
// source is reported, never fatal to the run.
type IngestOrchestrator struct {
	connectors  driven.ConnectorRegistry
	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	store       driven.EntryStore
	exclusions  driven.ExclusionStore
	runs        driven.RunStore
	timezone    string

	// Status tracking
	mu          sync.RWMutex
	activeSyncs map[string]*driving.SyncStatus
}

// NewIngestOrchestrator creates a new ingest orchestrator. The timezone
// is the IANA zone vendors use to resolve day boundaries; empty means UTC.
// The runs store is optional - if nil, runs are not recorded.
func NewIngestOrchestrator(
	connectors driven.ConnectorRegistry,
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	store driven.EntryStore,
	exclusions driven.ExclusionStore,
	runs driven.RunStore,
	timezone string,
) *IngestOrchestrator {
	return &IngestOrchestrator{
		connectors:  connectors,
		normalisers: normalisers,
		pipeline:    pipeline,
		store:       store,
		exclusions:  exclusions,
		runs:        runs,
		timezone:    timezone,
		activeSyncs: make(map[string]*driving.SyncStatus),
	}
}

// Sync ingests new records for a single source.
func (o *IngestOrchestrator) Sync(ctx context.Context, source string, opts driving.SyncOptions) (*domain.SyncReport, error) {
	// Resolve before starting a run so an unknown source surfaces as an
	// error rather than an empty report.
	if _, err := o.connectors.Get(source); err != nil {
		return nil, fmt.Errorf("get connector: %w", err)
	}

	report := newReport(opts.Trigger)
	report.Sources = append(report.Sources, o.syncSource(ctx, source, opts))
	o.finishRun(ctx, report)
	return report, nil
}

// SyncAll ingests new records for every registered source. One failing
// source does not abort the others.
func (o *IngestOrchestrator) SyncAll(ctx context.Context, opts driving.SyncOptions) (*domain.SyncReport, error) {
	report := newReport(opts.Trigger)
	for _, source := range o.connectors.Sources() {
		report.Sources = append(report.Sources, o.syncSource(ctx, source, opts))
	}
	o.finishRun(ctx, report)
	return report, nil
}

// Status returns sync progress for a source.
func (o *IngestOrchestrator) Status(_ context.Context, source string) (*driving.SyncStatus, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.activeSyncs[source]; ok {
		// Return a copy to avoid race conditions
		return &driving.SyncStatus{
			Source:           status.Source,
			Running:          status.Running,
			RecordsProcessed: status.RecordsProcessed,
			ErrorCount:       status.ErrorCount,
		}, nil
	}

	// Not running - return idle status
	return &driving.SyncStatus{
		Source:  source,
		Running: false,
	}, nil
}

// syncSource runs the ingestion pipeline for one source. Failures are
// recorded in the report rather than returned so that one source cannot
// abort a multi-source run. A source with a run already active is
// refused, not queued.
//
//nolint:gocognit,gocyclo // Pipeline orchestration with sequential steps
func (o *IngestOrchestrator) syncSource(ctx context.Context, source string, opts driving.SyncOptions) domain.SourceReport {
	report := domain.SourceReport{Source: source}

	status := &driving.SyncStatus{Source: source, Running: true}
	if err := o.beginSync(source, status); err != nil {
		o.recordFailure(&report, status, fmt.Sprintf("start: %v", err))
		return report
	}
	defer o.clearStatus(source)

	connector, err := o.connectors.Get(source)
	if err != nil {
		o.recordFailure(&report, status, fmt.Sprintf("get connector: %v", err))
		return report
	}

	if err := connector.Validate(ctx); err != nil {
		o.recordFailure(&report, status, fmt.Sprintf("validate: %v", err))
		return report
	}

	since, err := o.sinceDate(ctx, source, opts)
	if err != nil {
		o.recordFailure(&report, status, fmt.Sprintf("resolve cursor: %v", err))
		return report
	}

	logger.Info("Starting ingest for %s (since %q)", source, since)
	records, errs := connector.Fetch(ctx, driven.FetchQuery{
		Since:    since,
		Limit:    opts.Limit,
		Timezone: o.timezone,
	})

	// Stored-ID sets are loaded per record source, not per connector:
	// export-directory records carry the source of the vendor that
	// produced the file.
	existing := make(map[string]map[string]struct{})
	seen := make(map[string]struct{})
	var batch []domain.Entry

	for record := range records {
		report.Fetched++
		status.RecordsProcessed++

		entry, err := o.normalisers.Normalise(ctx, &record)
		if err != nil {
			o.recordFailure(&report, status, fmt.Sprintf("normalise %s: %v", record.NativeID, err))
			continue
		}
		if entry.Text == "" {
			o.recordFailure(&report, status, fmt.Sprintf("record %s has no text", entry.ID))
			continue
		}

		excluded, err := o.exclusions.IsExcluded(ctx, record.Source, record.NativeID)
		if err != nil {
			o.recordFailure(&report, status, fmt.Sprintf("check exclusion %s: %v", entry.ID, err))
			continue
		}
		if excluded {
			report.Skipped++
			continue
		}

		if _, dup := seen[entry.ID]; dup {
			report.Skipped++
			continue
		}
		seen[entry.ID] = struct{}{}

		if !opts.Force {
			ids, err := o.storedIDs(ctx, record.Source, existing)
			if err != nil {
				o.recordFailure(&report, status, fmt.Sprintf("load stored ids: %v", err))
				continue
			}
			if isStored(ids, entry.ID) {
				report.Skipped++
				continue
			}
		}

		entries, err := o.pipeline.Process(ctx, *entry)
		if err != nil {
			o.recordFailure(&report, status, fmt.Sprintf("post-process %s: %v", entry.ID, err))
			continue
		}
		if len(entries) > 1 {
			report.Chunked++
		}
		batch = append(batch, entries...)
	}

	// The fetch may have died mid-stream; records already consumed are
	// still worth storing.
	if err := <-errs; err != nil {
		o.recordFailure(&report, status, fmt.Sprintf("fetch: %v", err))
	}

	if len(batch) > 0 {
		added, err := o.store.Add(ctx, batch)
		if err != nil {
			o.recordFailure(&report, status, fmt.Sprintf("store batch: %v", err))
		} else {
			report.Added = added
		}
	}

	logger.Info("Ingest %s complete: %d fetched, %d added, %d skipped, %d errors",
		source, report.Fetched, report.Added, report.Skipped, report.Errors)
	status.Running = false
	return report
}

// sinceDate resolves the fetch window for a source: the newest stored
// day when one exists (re-fetched so late records on that day are still
// caught; dedup drops the rest), otherwise the Days lookback window.
// Force skips the cursor so the whole window is refetched.
func (o *IngestOrchestrator) sinceDate(ctx context.Context, source string, opts driving.SyncOptions) (string, error) {
	if !opts.Force {
		latest, err := o.store.LatestDate(ctx, source)
		if err != nil {
			return "", err
		}
		if latest != "" {
			return latest, nil
		}
	}

	if opts.Days <= 0 {
		return "", nil
	}

	loc := time.UTC
	if o.timezone != "" {
		if l, err := time.LoadLocation(o.timezone); err == nil {
			loc = l
		}
	}
	return time.Now().In(loc).AddDate(0, 0, -(opts.Days - 1)).Format(domain.DateLayout), nil
}

// storedIDs returns the stored-ID set for a record source, loading it
// on first use.
func (o *IngestOrchestrator) storedIDs(ctx context.Context, source string, cache map[string]map[string]struct{}) (map[string]struct{}, error) {
	if ids, ok := cache[source]; ok {
		return ids, nil
	}
	ids, err := o.store.IDs(ctx, source)
	if err != nil {
		return nil, err
	}
	cache[source] = ids
	return ids, nil
}

// isStored reports whether a record is already archived under its plain
// ID or, when a previous run split it, under its first chunk's ID.
func isStored(ids map[string]struct{}, id string) bool {
	if _, ok := ids[id]; ok {
		return true
	}
	_, ok := ids[domain.ChunkEntryID(id, 0)]
	return ok
}

// recordFailure counts one failure, keeping the first message for the report.
func (o *IngestOrchestrator) recordFailure(report *domain.SourceReport, status *driving.SyncStatus, msg string) {
	report.Errors++
	status.ErrorCount++
	if report.FirstError == "" {
		report.FirstError = msg
	}
	logger.Debug("Ingest %s: %s", report.Source, msg)
}

// finishRun stamps the report and appends it to the run ledger. The
// ledger is diagnostics; a write failure does not fail the ingest.
func (o *IngestOrchestrator) finishRun(ctx context.Context, report *domain.SyncReport) {
	report.FinishedAt = time.Now().UTC()

	if o.runs == nil {
		return
	}
	if err := o.runs.SaveRun(ctx, report); err != nil {
		logger.Warn("Failed to record ingest run %s: %v", report.RunID, err)
	}
}

// newReport starts a run report.
func newReport(trigger string) *domain.SyncReport {
	return &domain.SyncReport{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}
}

// beginSync registers the status for a source, refusing when a run for
// that source is already active.
func (o *IngestOrchestrator) beginSync(source string, status *driving.SyncStatus) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, active := o.activeSyncs[source]; active {
		return domain.ErrSyncInProgress
	}
	o.activeSyncs[source] = status
	return nil
}

// clearStatus removes the sync status for a source.
func (o *IngestOrchestrator) clearStatus(source string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeSyncs, source)
}
