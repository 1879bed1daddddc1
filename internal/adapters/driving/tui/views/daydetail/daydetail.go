// Package daydetail provides the single-day entry view component for the TUI.
package daydetail

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/components/viewer"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/messages"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
)

// View is the day detail view: the entries of a single day.
type View struct {
	styles       styles.Styles
	entryService driving.EntryService
	pane         *viewer.Pane

	date         string
	entries      []domain.Entry
	selected     int
	showingEntry bool
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new day detail view.
func NewView(s styles.Styles, entryService driving.EntryService) *View {
	return &View{
		styles:       s,
		entryService: entryService,
		pane:         viewer.NewPane(s),
		entries:      []domain.Entry{},
	}
}

// SetDate sets the day and loads its entries.
func (v *View) SetDate(date string) tea.Cmd {
	v.date = date
	v.entries = []domain.Entry{}
	v.selected = 0
	v.scrollOffset = 0
	v.showingEntry = false
	v.err = nil
	v.loading = true
	return v.loadEntries()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// loadEntries returns a command that loads the entries for the day.
func (v *View) loadEntries() tea.Cmd {
	return func() tea.Msg {
		if v.entryService == nil {
			return messages.DayEntriesReady{Err: fmt.Errorf("entry service not available")}
		}

		entries, err := v.entryService.ListByDate(context.Background(), v.date)
		return messages.DayEntriesReady{
			Date:    v.date,
			Entries: entries,
			Err:     err,
		}
	}
}

// Update handles messages for the day detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		v.pane.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.showingEntry {
			return v.handleEntryKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DayEntriesReady:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.entries = msg.Entries
			v.err = nil
		}
		return v, nil

	case messages.ErrMsg:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.entries)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if v.selected < len(v.entries) {
			entry := &v.entries[v.selected]
			v.pane.SetContent(v.entryHeading(entry), entry.Text)
			v.showingEntry = true
		}
	case "r":
		v.loading = true
		return v, v.loadEntries()
	case "esc":
		return v, func() tea.Msg {
			return messages.Navigate{To: messages.ScreenDays}
		}
	}

	return v, nil
}

// handleEntryKeyMsg handles key presses while an entry is open.
func (v *View) handleEntryKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		v.showingEntry = false
		return v, nil
	}

	var cmd tea.Cmd
	v.pane, cmd = v.pane.Update(msg)
	return v, cmd
}

// entryHeading builds the pane title for an entry.
func (v *View) entryHeading(entry *domain.Entry) string {
	return fmt.Sprintf("%s  %s · %s", entry.Timestamp.Format("15:04"), entry.Title(), entry.Source)
}

// adjustScroll keeps the selected entry visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of rows that can be displayed.
func (v *View) visibleItemCount() int {
	// Reserve lines for title, separator, help, and padding
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the day detail view.
func (v *View) View() string {
	if v.showingEntry {
		var b strings.Builder
		b.WriteString(v.pane.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Hint.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"))
		return b.String()
	}

	var b strings.Builder

	b.WriteString(v.styles.Heading.Render(v.heading()))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Faint.Render("Loading entries..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.err != nil {
		b.WriteString(v.styles.Bad.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if len(v.entries) == 0 {
		b.WriteString(v.styles.Faint.Render("No entries recorded on this day."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.entries) && i < v.scrollOffset+visibleItems; i++ {
		b.WriteString(v.renderEntry(i, &v.entries[i]))
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(v.entries) > visibleItems {
		lastItem := v.scrollOffset + visibleItems
		if lastItem > len(v.entries) {
			lastItem = len(v.entries)
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Faint.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, lastItem, len(v.entries))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// heading formats the view title for the selected day.
func (v *View) heading() string {
	day := v.date
	if t, err := time.Parse(domain.DateLayout, v.date); err == nil {
		day = t.Format("Monday, 2 January 2006")
	}
	return fmt.Sprintf("%s (%d entries)", day, len(v.entries))
}

// renderEntry renders a single entry row.
func (v *View) renderEntry(index int, entry *domain.Entry) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	title := entry.Title()
	maxTitleLen := v.width - 26
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	row := fmt.Sprintf("%s%s  %-10s %s", indicator, entry.Timestamp.Format("15:04"), entry.Source, title)

	if index == v.selected {
		return v.styles.Highlight.Render(row)
	}
	return v.styles.Body.Render(indicator+entry.Timestamp.Format("15:04")+"  ") +
		v.styles.Faint.Render(fmt.Sprintf("%-10s ", entry.Source)) +
		v.styles.Body.Render(title)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Hint.Render("[↑/↓] navigate  [enter] read  [r] reload  [esc] back")
}

// Resize fits the view to the terminal.
func (v *View) Resize(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.pane.SetDimensions(width, height)
}

// Date returns the current day.
func (v *View) Date() string {
	return v.date
}

// Entries returns the loaded entries.
func (v *View) Entries() []domain.Entry {
	return v.entries
}

// SelectedIndex returns the currently selected entry index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedEntry returns the currently selected entry, or nil if none.
func (v *View) SelectedEntry() *domain.Entry {
	if v.selected < len(v.entries) {
		return &v.entries[v.selected]
	}
	return nil
}

// IsShowingEntry returns true when an entry is open in the reading pane.
func (v *View) IsShowingEntry() bool {
	return v.showingEntry
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
