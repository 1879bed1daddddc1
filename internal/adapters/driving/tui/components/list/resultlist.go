// Package list renders search results as a navigable list.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

// rowLines is how many terminal lines one result occupies.
const rowLines = 3

// Model is the search result list.
type Model struct {
	items  []domain.SearchResult
	cursor int
	st     styles.Styles
	width  int
	height int
}

// New returns an empty result list.
func New(st styles.Styles) Model {
	return Model{st: st, width: 80, height: 10}
}

// Update moves the cursor on navigation keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		m.CursorUp()
	case "down", "j":
		m.CursorDown()
	}
	return m, nil
}

// View renders the visible window of results.
func (m Model) View() string {
	if len(m.items) == 0 {
		return m.st.Faint.Render("No results")
	}

	var b strings.Builder
	b.WriteString(m.st.Caption.Render(fmt.Sprintf("Results (%d)", len(m.items))))
	b.WriteString("\n\n")

	first, last := m.window()
	for i := first; i < last; i++ {
		m.writeRow(&b, i)
	}
	return strings.TrimRight(b.String(), "\n")
}

// window returns the half-open range of rows that fit, keeping the
// cursor visible.
func (m Model) window() (int, int) {
	capacity := (m.height - 4) / rowLines
	if capacity < 1 {
		capacity = 1
	}

	first := 0
	if m.cursor >= capacity {
		first = m.cursor - capacity + 1
	}
	last := first + capacity
	if last > len(m.items) {
		last = len(m.items)
	}
	return first, last
}

func (m Model) writeRow(b *strings.Builder, i int) {
	res := &m.items[i]
	entry := &res.Entry

	title := entry.Title()
	if title == "" {
		title = "(untitled)"
	}
	titleWidth := m.width - 20
	if titleWidth < 10 {
		titleWidth = 10
	}
	title = clip(title, titleWidth)

	score := fmt.Sprintf("%.2f", res.Score)
	if i == m.cursor {
		b.WriteString(m.st.Highlight.Render(fmt.Sprintf("> %-*s  %s", titleWidth, title, score)))
	} else {
		b.WriteString(m.st.Body.Render(fmt.Sprintf("  %-*s  ", titleWidth, title)))
		b.WriteString(m.st.Faint.Render(score))
	}
	b.WriteString("\n")

	meta := fmt.Sprintf("    %s %s · %s", entry.Date, entry.Timestamp.Format("15:04"), entry.Source)
	b.WriteString(m.st.Caption.Render(meta))
	b.WriteString("\n")

	preview := clip(strings.Join(strings.Fields(entry.Text), " "), max(m.width-6, 20))
	b.WriteString(m.st.Faint.Render("    " + preview))
	b.WriteString("\n")
}

// clip truncates s to at most n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetItems replaces the results and rewinds the cursor.
func (m *Model) SetItems(items []domain.SearchResult) {
	m.items = items
	m.cursor = 0
}

// Items returns the current results.
func (m Model) Items() []domain.SearchResult {
	return m.items
}

// Len returns the number of results.
func (m Model) Len() int {
	return len(m.items)
}

// Cursor returns the selected row index.
func (m Model) Cursor() int {
	return m.cursor
}

// Current returns the selected result, or nil when the list is empty.
func (m Model) Current() *domain.SearchResult {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return &m.items[m.cursor]
}

// CursorUp moves the selection up one row.
func (m *Model) CursorUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// CursorDown moves the selection down one row.
func (m *Model) CursorDown() {
	if m.cursor < len(m.items)-1 {
		m.cursor++
	}
}

// Resize fits the list to the terminal.
func (m *Model) Resize(width, height int) {
	m.width = width
	m.height = height
}
