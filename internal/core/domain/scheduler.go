package domain

import "time"

// JobBackgroundSync identifies the recurring ingestion job. It is the
// only job today; the store keys by ID so a future export or compaction
// job can share the machinery.
const JobBackgroundSync = "background_sync"

// SyncJob is the persisted state of a recurring background job. The
// scheduler reloads it on startup, so a crash mid-interval does not
// reset the cadence.
type SyncJob struct {
	ID          string
	Every       time.Duration
	Enabled     bool
	Due         time.Time
	LastStarted time.Time
	LastSuccess time.Time
	LastError   string
}

// JobOutcome records one completed execution of a job.
type JobOutcome struct {
	JobID    string
	Started  time.Time
	Finished time.Time
	Err      string
	Added    int
}

// Failed reports whether the execution ended in error.
func (o JobOutcome) Failed() bool { return o.Err != "" }

// SchedulerConfig comes from the [scheduler] config table. Background
// sync is off unless the user turns it on.
type SchedulerConfig struct {
	Enabled  bool
	Interval time.Duration
}

// DefaultSyncInterval applies when the config names no interval.
const DefaultSyncInterval = 30 * time.Minute
