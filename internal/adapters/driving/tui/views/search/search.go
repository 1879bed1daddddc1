// Package search is the TUI search screen: query entry, results, and a
// reading pane for the selected entry.
package search

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/components/input"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/components/list"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/components/status"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/components/viewer"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/keymap"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/messages"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
)

// searchLimit caps how many results one query requests.
const searchLimit = 20

// ErrNoSearchService is reported when the screen was built without a
// searcher to submit queries to.
var ErrNoSearchService = errors.New("no search service wired to the search screen")

// mode is which part of the screen owns the keyboard.
type mode int

const (
	modeQuery   mode = iota // typing in the input field
	modeResults             // navigating the result list
	modeReading             // an entry is open in the pane
)

// View is the search screen.
type View struct {
	st   styles.Styles
	keys keymap.Bindings

	query   input.Model
	results list.Model
	bar     status.Model
	pane    *viewer.Pane

	searcher driving.SearchService
	ctx      context.Context

	mode   mode
	err    error
	width  int
	height int
	ready  bool
}

// NewView wires the search screen components.
func NewView(st styles.Styles, keys keymap.Bindings, searcher driving.SearchService) *View {
	return &View{
		st:       st,
		keys:     keys,
		query:    input.New(st),
		results:  list.New(st),
		bar:      status.New(st, keys),
		pane:     viewer.NewPane(st),
		searcher: searcher,
		ctx:      context.Background(),
		mode:     modeQuery,
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used for search calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

func (v *View) Init() tea.Cmd {
	return v.query.Init()
}

// Update handles messages for the search screen.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.Resize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.SearchDone:
		v.applyResults(msg)
		return v, nil

	case messages.ErrMsg:
		v.fail(msg.Err)
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.query, cmd = v.query.Update(msg)
	cmds = append(cmds, cmd)
	v.results, cmd = v.results.Update(msg)
	cmds = append(cmds, cmd)
	return v, tea.Batch(cmds...)
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.mode == modeReading {
		return v.handleReadingKey(msg)
	}

	// Esc leaves the screen from either of the other modes.
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.Navigate{To: messages.ScreenMenu}
		}
	}

	if v.mode == modeQuery {
		return v.handleQueryKey(msg)
	}
	return v.handleResultsKey(msg)
}

func (v *View) handleQueryKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.query, cmd = v.query.Update(msg)
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if res := v.results.Current(); res != nil {
			v.openEntry(&res.Entry)
		}
	case "up", "k":
		v.results.CursorUp()
	case "down", "j":
		v.results.CursorDown()
	case "n":
		v.mode = modeQuery
		v.query.Reset()
		return v, v.query.Focus()
	}
	return v, nil
}

func (v *View) handleReadingKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		v.mode = modeResults
		return v, nil
	}

	var cmd tea.Cmd
	v.pane, cmd = v.pane.Update(msg)
	return v, cmd
}

// submit starts a search for the entered query.
func (v *View) submit() tea.Cmd {
	query := v.query.Value()
	if query == "" {
		return nil
	}

	v.bar.SetSearching()
	v.mode = modeResults
	v.query.Blur()

	return func() tea.Msg {
		if v.searcher == nil {
			return messages.ErrMsg{Err: ErrNoSearchService}
		}
		results, err := v.searcher.Search(v.ctx, query, searchLimit, domain.SearchFilter{})
		return messages.SearchDone{Results: results, Err: err}
	}
}

// openEntry loads an entry into the reading pane.
func (v *View) openEntry(entry *domain.Entry) {
	heading := fmt.Sprintf("%s · %s %s", entry.Title(), entry.Date, entry.Timestamp.Format("15:04"))
	v.pane.SetContent(heading, entry.Text)
	v.mode = modeReading
}

func (v *View) applyResults(msg messages.SearchDone) {
	if msg.Err != nil {
		v.fail(msg.Err)
		return
	}

	v.err = nil
	v.results.SetItems(msg.Results)
	v.bar.SetResults(len(msg.Results))
	v.mode = modeResults
	v.query.Blur()
}

func (v *View) fail(err error) {
	v.err = err
	v.bar.SetError(err.Error())
}

// View renders the search screen.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	if v.mode == modeReading {
		return lipgloss.JoinVertical(lipgloss.Left,
			v.pane.View(),
			"",
			v.st.Hint.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back"),
		)
	}

	sections := []string{
		v.st.Heading.Render("Pensieve"),
		"",
		v.query.View(),
		"",
	}
	if v.err != nil {
		sections = append(sections, v.st.Bad.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, v.results.View(), "", v.bar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Resize fits the screen and its components to the terminal.
func (v *View) Resize(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.query.Resize(width)
	v.results.Resize(width, height-10) // header, input, and bar take the rest
	v.bar.SetWidth(width)
	v.pane.SetDimensions(width, height)
}

// Reset returns the screen to an empty query prompt.
func (v *View) Reset() {
	v.mode = modeQuery
	v.err = nil
	v.query.Reset()
	v.query.Focus()
	v.results.SetItems(nil)
	v.bar.Reset()
}

// Ready reports whether the screen has been sized.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the entered query text.
func (v *View) Query() string {
	return v.query.Value()
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.results.Items()
}

// Cursor returns the selected result index.
func (v *View) Cursor() int {
	return v.results.Cursor()
}

// Current returns the selected result, or nil.
func (v *View) Current() *domain.SearchResult {
	return v.results.Current()
}

// InputFocused reports whether the query field owns the keyboard.
func (v *View) InputFocused() bool {
	return v.mode == modeQuery
}

// Reading reports whether the reading pane is open.
func (v *View) Reading() bool {
	return v.mode == modeReading
}

// Err returns the last search failure, if any.
func (v *View) Err() error {
	return v.err
}
