package domain

import "errors"

// Sentinel errors for business-rule failures. Adapters wrap these
// with fmt.Errorf("...: %w", ...) so callers can branch on errors.Is
// without caring which backend produced the failure.

// Lookup and input errors.
var (
	// ErrNotFound marks an absent entity. Lookups treat it as a
	// missing value, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks malformed caller input, such as a blank
	// text handed to the embedder.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfiguration marks settings that cannot work
	// together, such as a chunk overlap at least as large as the
	// chunk size.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrUnsupportedType marks an unknown source or normaliser name.
	ErrUnsupportedType = errors.New("unsupported type")
)

// Archive errors.
var (
	// ErrEmbedding marks a backend that failed to produce a vector.
	ErrEmbedding = errors.New("embedding failed")

	// ErrPersistence marks archive artifacts that could not be
	// written or read back.
	ErrPersistence = errors.New("persistence failed")

	// ErrDimensionMismatch marks a vector whose size does not match
	// the index.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrSyncInProgress marks an ingestion run that is already
	// underway; runs never overlap.
	ErrSyncInProgress = errors.New("sync in progress")
)

// Missing-service errors. These mark optional services that were
// never configured, as opposed to configured services that failed.
var (
	// ErrEmbeddingUnavailable disables adding and searching entries.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable disables day summaries.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

// Vendor connector errors.
var (
	// ErrAuthRequired marks a vendor that needs an API key when
	// none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrConnectorValidation marks a source that is misconfigured
	// or holds an invalid key.
	ErrConnectorValidation = errors.New("connector validation failed")

	// ErrConnectorClosed marks use of a connector after Close.
	ErrConnectorClosed = errors.New("connector closed")

	// ErrRateLimited marks a vendor API that refused the request
	// rate.
	ErrRateLimited = errors.New("rate limited")
)
