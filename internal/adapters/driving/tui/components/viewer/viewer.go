// Package viewer provides a scrollable text pane for the TUI.
package viewer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
)

// Pane displays a block of text with line wrapping and scrolling.
type Pane struct {
	st           styles.Styles
	title        string
	text         string
	lines        []string
	scrollOffset int
	width        int
	height       int
}

// NewPane creates a new text pane.
func NewPane(st styles.Styles) *Pane {
	return &Pane{
		st:     st,
		width:  80,
		height: 24,
	}
}

// SetContent replaces the pane content and resets the scroll position.
func (p *Pane) SetContent(title, text string) {
	p.title = title
	p.text = text
	p.scrollOffset = 0
	p.wrapContent()
}

// Init initialises the pane.
func (p *Pane) Init() tea.Cmd {
	return nil
}

// Update handles scrolling keys.
func (p *Pane) Update(msg tea.Msg) (*Pane, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if p.scrollOffset > 0 {
			p.scrollOffset--
		}
	case "down", "j":
		if p.scrollOffset < p.maxScrollOffset() {
			p.scrollOffset++
		}
	case "pgup", "ctrl+u":
		p.scrollOffset -= p.visibleLines()
		if p.scrollOffset < 0 {
			p.scrollOffset = 0
		}
	case "pgdown", "ctrl+d":
		maxOffset := p.maxScrollOffset()
		p.scrollOffset += p.visibleLines()
		if p.scrollOffset > maxOffset {
			p.scrollOffset = maxOffset
		}
	case "home", "g":
		p.scrollOffset = 0
	case "end", "G":
		p.scrollOffset = p.maxScrollOffset()
	}

	return p, nil
}

// wrapContent wraps the text to fit the pane width.
func (p *Pane) wrapContent() {
	if p.text == "" {
		p.lines = nil
		return
	}

	// Calculate available width (accounting for padding)
	contentWidth := p.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	// Split into lines and wrap long lines
	rawLines := strings.Split(p.text, "\n")
	p.lines = make([]string, 0, len(rawLines))

	for _, line := range rawLines {
		if len(line) <= contentWidth {
			p.lines = append(p.lines, line)
			continue
		}
		for len(line) > contentWidth {
			p.lines = append(p.lines, line[:contentWidth])
			line = line[contentWidth:]
		}
		if line != "" {
			p.lines = append(p.lines, line)
		}
	}
}

// visibleLines returns the number of lines that can be displayed.
func (p *Pane) visibleLines() int {
	// Reserve lines for title, separator and scroll indicator
	reserved := 6
	available := p.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (p *Pane) maxScrollOffset() int {
	maxOffset := len(p.lines) - p.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// View renders the pane.
func (p *Pane) View() string {
	var b strings.Builder

	// Title
	title := p.title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(p.st.Heading.Render(title))
	b.WriteString("\n")

	// Separator
	sepWidth := p.width - 4
	if sepWidth > 60 {
		sepWidth = 60
	}
	if sepWidth < 1 {
		sepWidth = 1
	}
	b.WriteString(strings.Repeat("─", sepWidth))
	b.WriteString("\n\n")

	// Empty content
	if len(p.lines) == 0 {
		b.WriteString(p.st.Faint.Render("(No content)"))
		return b.String()
	}

	// Content
	visibleLines := p.visibleLines()
	for i := p.scrollOffset; i < len(p.lines) && i < p.scrollOffset+visibleLines; i++ {
		b.WriteString(p.st.Body.Render(p.lines[i]))
		b.WriteString("\n")
	}

	// Scroll position indicator
	if len(p.lines) > visibleLines {
		b.WriteString("\n")
		percentage := 0
		if p.maxScrollOffset() > 0 {
			percentage = p.scrollOffset * 100 / p.maxScrollOffset()
		}
		lastLine := p.scrollOffset + visibleLines
		if lastLine > len(p.lines) {
			lastLine = len(p.lines)
		}
		b.WriteString(p.st.Faint.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage, p.scrollOffset+1, lastLine, len(p.lines))))
	}

	return b.String()
}

// SetDimensions sets the pane dimensions.
func (p *Pane) SetDimensions(width, height int) {
	p.width = width
	p.height = height
	p.wrapContent()
}

// Title returns the current title.
func (p *Pane) Title() string {
	return p.title
}

// Text returns the current text.
func (p *Pane) Text() string {
	return p.text
}

// ScrollOffset returns the current scroll offset.
func (p *Pane) ScrollOffset() int {
	return p.scrollOffset
}

// LineCount returns the number of wrapped lines.
func (p *Pane) LineCount() int {
	return len(p.lines)
}
