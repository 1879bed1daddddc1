package viewer

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "pgup":
		return tea.KeyMsg{Type: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// longText returns n short lines so scrolling can be asserted.
func longText(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = strings.Repeat("x", 10)
	}
	return strings.Join(lines, "\n")
}

func TestNewPane(t *testing.T) {
	p := NewPane(styles.Default())

	require.NotNil(t, p)
	assert.Empty(t, p.Title())
	assert.Empty(t, p.Text())
	assert.Equal(t, 0, p.LineCount())
}

func TestPane_SetContent(t *testing.T) {
	p := NewPane(styles.Default())

	p.SetContent("09:30  Morning standup · limitless", "First line.\nSecond line.")

	assert.Equal(t, "09:30  Morning standup · limitless", p.Title())
	assert.Equal(t, "First line.\nSecond line.", p.Text())
	assert.Equal(t, 2, p.LineCount())
	assert.Equal(t, 0, p.ScrollOffset())
}

func TestPane_SetContent_ResetsScroll(t *testing.T) {
	p := NewPane(styles.Default())
	p.SetDimensions(80, 10)
	p.SetContent("a", longText(50))
	p, _ = p.Update(keyMsg("down"))
	require.Equal(t, 1, p.ScrollOffset())

	p.SetContent("b", longText(50))

	assert.Equal(t, 0, p.ScrollOffset())
}

func TestPane_WrapsLongLines(t *testing.T) {
	p := NewPane(styles.Default())
	p.SetDimensions(44, 24)

	// 100 chars against a 40-char content width wraps to 3 lines
	p.SetContent("t", strings.Repeat("a", 100))

	assert.Equal(t, 3, p.LineCount())
}

func TestPane_Scrolling(t *testing.T) {
	p := NewPane(styles.Default())
	p.SetDimensions(80, 12) // 6 visible lines
	p.SetContent("t", longText(20))

	p, _ = p.Update(keyMsg("down"))
	assert.Equal(t, 1, p.ScrollOffset())

	p, _ = p.Update(keyMsg("j"))
	assert.Equal(t, 2, p.ScrollOffset())

	p, _ = p.Update(keyMsg("up"))
	assert.Equal(t, 1, p.ScrollOffset())

	p, _ = p.Update(keyMsg("k"))
	assert.Equal(t, 0, p.ScrollOffset())

	// Up at the top is a no-op
	p, _ = p.Update(keyMsg("up"))
	assert.Equal(t, 0, p.ScrollOffset())
}

func TestPane_PageScrolling(t *testing.T) {
	p := NewPane(styles.Default())
	p.SetDimensions(80, 12) // 6 visible lines
	p.SetContent("t", longText(20))

	p, _ = p.Update(keyMsg("pgdown"))
	assert.Equal(t, 6, p.ScrollOffset())

	p, _ = p.Update(keyMsg("pgup"))
	assert.Equal(t, 0, p.ScrollOffset())

	// End jumps to the last page, home back to the top
	p, _ = p.Update(keyMsg("end"))
	assert.Equal(t, 14, p.ScrollOffset())

	p, _ = p.Update(keyMsg("G"))
	assert.Equal(t, 14, p.ScrollOffset())

	p, _ = p.Update(keyMsg("home"))
	assert.Equal(t, 0, p.ScrollOffset())

	// Down at the bottom is a no-op
	p, _ = p.Update(keyMsg("g"))
	p, _ = p.Update(keyMsg("end"))
	p, _ = p.Update(keyMsg("down"))
	assert.Equal(t, 14, p.ScrollOffset())
}

func TestPane_View(t *testing.T) {
	p := NewPane(styles.Default())
	p.SetContent("Morning standup", "Discussed the release plan.")

	view := p.View()
	assert.Contains(t, view, "Morning standup")
	assert.Contains(t, view, "─")
	assert.Contains(t, view, "Discussed the release plan.")
}

func TestPane_View_UntitledAndEmpty(t *testing.T) {
	p := NewPane(styles.Default())
	p.SetContent("", "")

	view := p.View()
	assert.Contains(t, view, "(untitled)")
	assert.Contains(t, view, "(No content)")
}

func TestPane_View_ScrollIndicator(t *testing.T) {
	p := NewPane(styles.Default())
	p.SetDimensions(80, 12) // 6 visible lines
	p.SetContent("t", longText(20))

	view := p.View()
	assert.Contains(t, view, "Line 1-6 of 20")

	p, _ = p.Update(keyMsg("end"))
	view = p.View()
	assert.Contains(t, view, "[100%]")
	assert.Contains(t, view, "Line 15-20 of 20")
}

func TestPane_SetDimensions_Rewraps(t *testing.T) {
	p := NewPane(styles.Default())
	p.SetDimensions(104, 24) // 100-char content width
	p.SetContent("t", strings.Repeat("a", 100))
	require.Equal(t, 1, p.LineCount())

	p.SetDimensions(54, 24) // 50-char content width

	assert.Equal(t, 2, p.LineCount())
}
