package domain

import (
	"fmt"
	"time"
)

// Source identifiers for the supported lifelog vendors.
const (
	SourceLimitless = "limitless"
	SourceBee       = "bee"
)

// DateLayout is the canonical day format used for filtering and grouping.
const DateLayout = "2006-01-02"

// timestampLayouts are accepted vendor timestamp forms, tried in order.
// Vendors send RFC 3339 with or without fractional seconds; some records
// omit the zone, which is then taken as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a vendor timestamp string.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", ErrInvalidInput, s)
}

// Entry represents an archived lifelog unit after normalisation.
// It is the canonical representation stored in the archive; one entry
// corresponds to one vector in the index.
type Entry struct {
	// ID is the unique identifier: "<source>_<nativeID>" for whole records,
	// "<parentID>_chunk_<n>" for chunks of long records.
	ID string `json:"id"`

	// Source identifies the vendor that produced this entry.
	Source string `json:"source"`

	// Text is the full text content that was embedded.
	Text string `json:"text"`

	// Summary is the vendor-provided or extracted long summary.
	Summary string `json:"summary,omitempty"`

	// ShortSummary is a one-line summary when the vendor provides one.
	ShortSummary string `json:"short_summary,omitempty"`

	// Timestamp is the recording start time reported by the vendor.
	Timestamp time.Time `json:"timestamp"`

	// Date is the day of the entry in DateLayout form.
	// Always derived from Timestamp when the entry is written, never
	// taken from vendor payloads directly.
	Date string `json:"date,omitempty"`

	// VectorID is the position of this entry's vector in the index.
	// Maintained by the store; entries[i].VectorID == i at all times.
	VectorID int `json:"vector_id"`

	// ChunkIndex is the ordinal of this chunk within its parent record.
	// Zero for unchunked entries.
	ChunkIndex int `json:"chunk_index,omitempty"`

	// ChunkCount is the total number of chunks the parent was split into.
	// Zero for unchunked entries.
	ChunkCount int `json:"chunk_count,omitempty"`

	// Metadata contains vendor-specific display fields
	// (startTime, endTime, location, title).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// EntryID builds the canonical identifier for a vendor record.
// This is the single place the scheme is defined; every ingestion path
// and lookup uses it so the same record always maps to the same ID.
func EntryID(source, nativeID string) string {
	return fmt.Sprintf("%s_%s", source, nativeID)
}

// ChunkEntryID builds the identifier for chunk n of a parent entry.
func ChunkEntryID(parentID string, n int) string {
	return fmt.Sprintf("%s_chunk_%d", parentID, n)
}

// IsChunk reports whether the entry is one chunk of a longer record.
func (e *Entry) IsChunk() bool {
	return e.ChunkCount > 0
}

// DeriveDate sets Date from Timestamp. Entries with a zero Timestamp
// keep an empty Date rather than claiming the Unix epoch.
func (e *Entry) DeriveDate() {
	if e.Timestamp.IsZero() {
		e.Date = ""
		return
	}
	e.Date = e.Timestamp.Format(DateLayout)
}

// Title returns the best display title for the entry: the short summary,
// then the summary, then the metadata title, then the ID.
func (e *Entry) Title() string {
	if e.ShortSummary != "" {
		return e.ShortSummary
	}
	if e.Summary != "" {
		return e.Summary
	}
	if t := e.Metadata["title"]; t != "" {
		return t
	}
	return e.ID
}
