package driven

import (
	"context"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// Connector fetches raw records from a lifelog vendor API.
// Connectors handle pagination and rate limiting internally and stream
// records as they arrive.
type Connector interface {
	// Source returns the vendor identifier this connector serves.
	Source() string

	// Validate checks the connector is properly configured and the API
	// key is accepted. Makes a lightweight test call.
	Validate(ctx context.Context) error

	// Fetch streams records matching the query. The record channel is
	// closed when fetching completes; a terminal failure is sent on the
	// error channel first. Records already consumed remain valid.
	Fetch(ctx context.Context, q FetchQuery) (<-chan domain.RawRecord, <-chan error)

	// Close releases resources. Fetch must not be called afterwards.
	Close() error
}

// FetchQuery bounds a connector fetch.
type FetchQuery struct {
	// Since restricts records to days on or after this date
	// (domain.DateLayout form). Empty fetches the vendor default window.
	Since string

	// Limit caps the number of records fetched. Zero means no cap.
	Limit int

	// Timezone is the IANA zone name vendors use to resolve day
	// boundaries. Empty means UTC.
	Timezone string
}

// ConnectorRegistry resolves connectors by source name.
type ConnectorRegistry interface {
	// Get returns the connector for a source.
	// Returns ErrUnsupportedType for unknown sources.
	Get(source string) (Connector, error)

	// Sources lists registered source names in registration order.
	Sources() []string
}
