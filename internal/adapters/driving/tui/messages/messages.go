// Package messages holds the Bubbletea messages the TUI views exchange.
package messages

import "github.com/pensieve-labs/pensieve-cli/internal/core/domain"

// Screen identifies one of the TUI screens.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenDays
	ScreenDay
	ScreenSearch
	ScreenHelp
)

var screenNames = [...]string{"menu", "days", "day", "search", "help"}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return "unknown"
	}
	return screenNames[s]
}

// Navigate asks the app to switch screens.
type Navigate struct {
	To Screen
}

// SearchDone carries search results back to the search view.
type SearchDone struct {
	Results []domain.SearchResult
	Err     error
}

// StatsReady carries the archive statistics the day list is built from.
type StatsReady struct {
	Stats *domain.Stats
	Err   error
}

// DayPicked is emitted when a day is opened from the day list.
type DayPicked struct {
	Date string
}

// DayEntriesReady carries the entries of a single day.
type DayEntriesReady struct {
	Date    string
	Entries []domain.Entry
	Err     error
}

// SyncNow asks the app to run an immediate sync of all sources.
type SyncNow struct{}

// SyncDone carries the outcome of a sync run.
type SyncDone struct {
	Report *domain.SyncReport
	Err    error
}

// ErrMsg reports a failure to the active view.
type ErrMsg struct {
	Err error
}
