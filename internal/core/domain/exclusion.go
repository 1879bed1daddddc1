package domain

import "time"

// Exclusion marks a vendor record that must never be ingested.
// Used as a privacy skip list: excluded records are dropped during
// ingestion even when the vendor keeps returning them.
type Exclusion struct {
	// Source identifies the vendor.
	Source string

	// NativeID is the vendor's identifier for the excluded record.
	NativeID string

	// Reason is an optional human note on why it was excluded.
	Reason string

	// CreatedAt is when the exclusion was added.
	CreatedAt time.Time
}
