// Package input wraps the bubbles text input for query entry.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
)

const (
	defaultWidth  = 50
	maxQueryChars = 256
)

// Model is the query entry field.
type Model struct {
	field textinput.Model
	st    styles.Styles
}

// New returns a focused query field.
func New(st styles.Styles) Model {
	field := textinput.New()
	field.Placeholder = "Search your lifelog..."
	field.CharLimit = maxQueryChars
	field.Width = defaultWidth
	field.Focus()

	return Model{field: field, st: st}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	label := m.st.Heading.Render("Search: ")
	box := m.st.Prompt.Render(m.field.View())
	//nolint:misspell // lipgloss.Center is the library's spelling
	return lipgloss.JoinHorizontal(lipgloss.Center, label, box)
}

// Value returns the text currently entered.
func (m Model) Value() string {
	return m.field.Value()
}

// Focused reports whether the field has focus.
func (m Model) Focused() bool {
	return m.field.Focused()
}

// Focus gives the field focus.
func (m *Model) Focus() tea.Cmd {
	return m.field.Focus()
}

// Blur drops focus.
func (m *Model) Blur() {
	m.field.Blur()
}

// Reset clears the entered text.
func (m *Model) Reset() {
	m.field.Reset()
}

// Resize fits the field to the given terminal width.
func (m *Model) Resize(width int) {
	w := width - 10 // room for the label and box padding
	if w < 20 {
		w = 20
	}
	m.field.Width = w
}
