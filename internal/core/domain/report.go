package domain

import "time"

// SourceReport carries per-source counts for one ingestion run.
type SourceReport struct {
	// Source identifies the vendor.
	Source string

	// Fetched is the number of records returned by the connector.
	Fetched int

	// Added is the number of entries written to the archive,
	// counting each chunk separately.
	Added int

	// Skipped is the number of records dropped by dedup or exclusion.
	Skipped int

	// Chunked is the number of records that were split before embedding.
	Chunked int

	// Errors is the number of records that failed normalisation or embedding.
	Errors int

	// FirstError preserves the first failure for diagnostics.
	FirstError string
}

// SyncReport summarises one ingestion run across all sources.
type SyncReport struct {
	// RunID identifies the run in the ledger.
	RunID string

	// Trigger records what started the run ("cli", "scheduler", "mcp").
	Trigger string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time

	// Sources holds the per-source counts in processing order.
	Sources []SourceReport
}

// TotalAdded sums added entries across sources.
func (r *SyncReport) TotalAdded() int {
	total := 0
	for i := range r.Sources {
		total += r.Sources[i].Added
	}
	return total
}

// TotalErrors sums errors across sources.
func (r *SyncReport) TotalErrors() int {
	total := 0
	for i := range r.Sources {
		total += r.Sources[i].Errors
	}
	return total
}

// Duration returns the elapsed run time.
func (r *SyncReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
