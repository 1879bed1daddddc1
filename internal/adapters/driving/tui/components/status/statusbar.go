// Package status renders the one-line status bar at the bottom of the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/keymap"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
)

// Mode is what the left side of the bar reports.
type Mode int

const (
	Idle Mode = iota
	Searching
	Syncing
	Results
	Failed
)

// Model is the status bar. It is passive: views mutate it through the
// setters and render it with View.
type Model struct {
	st    styles.Styles
	keys  keymap.Bindings
	mode  Mode
	note  string
	count int
	width int
}

// New returns an idle status bar.
func New(st styles.Styles, keys keymap.Bindings) Model {
	return Model{st: st, keys: keys, width: 80}
}

// View renders the bar: mode on the left, key hints on the right.
func (m Model) View() string {
	left := m.left()
	right := m.hints()

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return m.st.Bar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) left() string {
	switch m.mode {
	case Searching:
		return m.st.Faint.Render("Searching...")
	case Syncing:
		return m.st.Faint.Render("Syncing...")
	case Failed:
		if m.note != "" {
			return m.st.Bad.Render("Error: " + m.note)
		}
		return m.st.Bad.Render("Error")
	case Results:
		return m.st.Body.Render(fmt.Sprintf("%d results", m.count))
	case Idle:
	}
	return m.st.Faint.Render("Ready")
}

func (m Model) hints() string {
	bindings := m.keys.GlobalHints()
	if m.mode == Results && m.count > 0 {
		bindings = m.keys.ResultHints()
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return m.st.Faint.Render(strings.Join(parts, " | "))
}

// Mode returns the current mode.
func (m Model) Mode() Mode {
	return m.mode
}

// SetSearching marks a search in flight.
func (m *Model) SetSearching() {
	m.mode = Searching
	m.note = ""
}

// SetSyncing marks a sync in flight.
func (m *Model) SetSyncing() {
	m.mode = Syncing
	m.note = ""
}

// SetResults reports a completed search.
func (m *Model) SetResults(count int) {
	m.mode = Results
	m.count = count
	m.note = ""
}

// SetError reports a failure.
func (m *Model) SetError(note string) {
	m.mode = Failed
	m.note = note
}

// Reset returns the bar to idle.
func (m *Model) Reset() {
	m.mode = Idle
	m.note = ""
	m.count = 0
}

// SetWidth fits the bar to the terminal.
func (m *Model) SetWidth(width int) {
	m.width = width
}
