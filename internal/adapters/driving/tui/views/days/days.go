// Package days provides the day list view component for the TUI.
package days

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/messages"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
)

// Item is one day row in the list.
type Item struct {
	Date  string
	Count int
}

// View is the day list view.
type View struct {
	styles       styles.Styles
	entryService driving.EntryService

	days         []Item
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new day list view.
func NewView(s styles.Styles, entryService driving.EntryService) *View {
	return &View{
		styles:       s,
		entryService: entryService,
		days:         []Item{},
	}
}

// Init initialises the view and loads the day list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadDays()
}

// loadDays returns a command that loads the archive statistics.
func (v *View) loadDays() tea.Cmd {
	return func() tea.Msg {
		if v.entryService == nil {
			return messages.StatsReady{Err: fmt.Errorf("entry service not available")}
		}

		stats, err := v.entryService.Stats(context.Background())
		return messages.StatsReady{Stats: stats, Err: err}
	}
}

// Update handles messages for the day list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.StatsReady:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.setDays(msg.Stats)
			v.err = nil
		}
		return v, nil

	case messages.ErrMsg:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// setDays derives the sorted day list from archive statistics, newest first.
func (v *View) setDays(stats *domain.Stats) {
	if stats == nil {
		v.days = []Item{}
		return
	}

	days := make([]Item, 0, len(stats.Dates))
	for date, count := range stats.Dates {
		days = append(days, Item{Date: date, Count: count})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date > days[j].Date
	})

	v.days = days
	if v.selected >= len(days) {
		v.selected = 0
	}
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.days)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if v.selected < len(v.days) {
			date := v.days[v.selected].Date
			return v, func() tea.Msg {
				return messages.DayPicked{Date: date}
			}
		}
	case "r":
		v.loading = true
		return v, v.loadDays()
	case "esc":
		return v, func() tea.Msg {
			return messages.Navigate{To: messages.ScreenMenu}
		}
	}

	return v, nil
}

// adjustScroll keeps the selected item visible.
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

// View renders the day list.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Days (%d)", len(v.days))
	b.WriteString(v.styles.Heading.Render(title))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Faint.Render("Loading days..."))
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

	if len(v.days) == 0 {
		b.WriteString(v.styles.Faint.Render("The archive is empty. Run a sync to ingest your lifelog."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.days) && i < v.scrollOffset+visibleItems; i++ {
		b.WriteString(v.renderDay(i, v.days[i]))
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(v.days) > visibleItems {
		lastItem := v.scrollOffset + visibleItems
		if lastItem > len(v.days) {
			lastItem = len(v.days)
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Faint.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, lastItem, len(v.days))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderDay renders a single day row.
func (v *View) renderDay(index int, day Item) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	weekday := ""
	if t, err := time.Parse(domain.DateLayout, day.Date); err == nil {
		weekday = t.Format("Monday")
	}

	noun := "entries"
	if day.Count == 1 {
		noun = "entry"
	}
	row := fmt.Sprintf("%s%s  %-9s  %3d %s", indicator, day.Date, weekday, day.Count, noun)

	if index == v.selected {
		return v.styles.Highlight.Render(row)
	}
	return v.styles.Body.Render(row)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Hint.Render("[↑/↓] navigate  [enter] open day  [r] reload  [esc] back")
}

// Resize fits the view to the terminal.
func (v *View) Resize(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Days returns the current day list.
func (v *View) Days() []Item {
	return v.days
}

// SelectedIndex returns the currently selected row index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDay returns the currently selected day, or nil if none.
func (v *View) SelectedDay() *Item {
	if v.selected < len(v.days) {
		return &v.days[v.selected]
	}
	return nil
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
