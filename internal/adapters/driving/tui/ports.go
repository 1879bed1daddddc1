// Package tui is the interactive terminal driving adapter.
package tui

import (
	"errors"

	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
)

var (
	// ErrSearchRequired is returned when the TUI is built without a search service.
	ErrSearchRequired = errors.New("tui: search service is required")

	// ErrEntriesRequired is returned when the TUI is built without an entry service.
	ErrEntriesRequired = errors.New("tui: entry service is required")
)

// Services are the driving ports the TUI calls into.
type Services struct {
	Search  driving.SearchService
	Entries driving.EntryService

	// Ingest powers the sync menu action. Optional; the action reports
	// when it is absent.
	Ingest driving.IngestOrchestrator
}

// Validate checks the required ports are present.
func (s Services) Validate() error {
	if s.Search == nil {
		return ErrSearchRequired
	}
	if s.Entries == nil {
		return ErrEntriesRequired
	}
	return nil
}
