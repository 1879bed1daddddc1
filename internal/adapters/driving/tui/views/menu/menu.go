// Package menu is the TUI entry screen.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/messages"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
)

// action is what a menu row does when confirmed.
type action int

const (
	actGoto action = iota
	actSync
	actQuit
)

type row struct {
	label string
	act   action
	to    messages.Screen
}

// Model is the menu screen.
type Model struct {
	st      styles.Styles
	rows    []row
	cursor  int
	syncing bool
	outcome string
	width   int
	height  int
	ready   bool
}

// New returns the menu with the standard rows.
func New(st styles.Styles) *Model {
	return &Model{
		st: st,
		rows: []row{
			{label: "Search", act: actGoto, to: messages.ScreenSearch},
			{label: "Days", act: actGoto, to: messages.ScreenDays},
			{label: "Sync now", act: actSync},
			{label: "Help", act: actGoto, to: messages.ScreenHelp},
			{label: "Quit", act: actQuit},
		},
		width:  80,
		height: 24,
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles navigation, selection, and sync outcomes.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil

	case messages.SyncDone:
		m.syncing = false
		switch {
		case msg.Err != nil:
			m.outcome = "Sync failed: " + msg.Err.Error()
		case msg.Report != nil:
			m.outcome = fmt.Sprintf("Synced: added %d entries", msg.Report.TotalAdded())
		default:
			m.outcome = "Synced"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter":
		return m, m.confirm()
	case "/":
		return m, goTo(messages.ScreenSearch)
	case "?":
		return m, goTo(messages.ScreenHelp)
	case "s":
		return m, m.startSync()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) confirm() tea.Cmd {
	r := m.rows[m.cursor]
	switch r.act {
	case actQuit:
		return tea.Quit
	case actSync:
		return m.startSync()
	case actGoto:
	}
	return goTo(r.to)
}

func goTo(s messages.Screen) tea.Cmd {
	return func() tea.Msg {
		return messages.Navigate{To: s}
	}
}

// startSync emits a sync request unless one is already in flight.
func (m *Model) startSync() tea.Cmd {
	if m.syncing {
		return nil
	}
	m.syncing = true
	m.outcome = ""
	return func() tea.Msg {
		return messages.SyncNow{}
	}
}

// View renders the menu.
func (m *Model) View() string {
	if !m.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(m.st.Heading.Render("Pensieve"))
	b.WriteString("\n\n")
	b.WriteString(m.st.Faint.Render("Lifelog Archive"))
	b.WriteString("\n\n")

	for i, r := range m.rows {
		label := r.label
		if r.act == actSync && m.syncing {
			label = "Syncing..."
		}
		if i == m.cursor {
			b.WriteString("> " + m.st.Heading.Render(label))
		} else {
			b.WriteString("  " + m.st.Body.Render(label))
		}
		b.WriteString("\n")
	}

	if m.outcome != "" {
		b.WriteString("\n")
		if strings.HasPrefix(m.outcome, "Sync failed") {
			b.WriteString(m.st.Bad.Render(m.outcome))
		} else {
			b.WriteString(m.st.Good.Render(m.outcome))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.st.Hint.Render("[j/k] Navigate  [Enter] Select  [s] Sync  [q] Quit"))

	return b.String()
}

// Resize fits the menu to the terminal.
func (m *Model) Resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true
}

// Cursor returns the selected row index.
func (m *Model) Cursor() int {
	return m.cursor
}

// Syncing reports whether a sync is in flight.
func (m *Model) Syncing() bool {
	return m.syncing
}

// Outcome returns the last sync outcome line.
func (m *Model) Outcome() string {
	return m.outcome
}
