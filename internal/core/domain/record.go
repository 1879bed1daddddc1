package domain

import "time"

// RawRecord represents one vendor record as fetched by a connector,
// before normalisation into an Entry.
type RawRecord struct {
	// Source identifies the vendor that produced this record.
	Source string

	// NativeID is the vendor's own identifier for the record.
	NativeID string

	// Payload is the raw vendor JSON.
	Payload []byte

	// FetchedAt is when the connector retrieved the record.
	FetchedAt time.Time
}
