package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/keymap"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/messages"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/styles"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/views/daydetail"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/views/days"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/views/menu"
	"github.com/pensieve-labs/pensieve-cli/internal/adapters/driving/tui/views/search"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driving"
)

// helpText is the static help screen.
const helpText = `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  /           Jump to search
  s           Sync now
  q           Quit

Days:
  j/k, ↑/↓    Navigate days
  enter       Open day
  r           Reload

Search:
  (type)      Enter search query
  enter       Submit search
  n           New search

Results:
  j/k, ↑/↓    Navigate results
  enter       Read entry

[esc] back to menu`

// App is the Bubbletea root model. It owns one model per screen and
// routes messages to whichever screen is active.
type App struct {
	services Services
	ctx      context.Context

	menu   *menu.Model
	days   *days.View
	day    *daydetail.View
	search *search.View

	screen messages.Screen
	err    error
	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp builds the root model and every screen.
func NewApp(services Services) (*App, error) {
	if err := services.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	st := styles.Default()
	keys := keymap.Default()

	return &App{
		services: services,
		ctx:      context.Background(),
		menu:     menu.New(st),
		days:     days.NewView(st, services.Entries),
		day:      daydetail.NewView(st, services.Entries),
		search:   search.NewView(st, keys, services.Search),
		screen:   messages.ScreenMenu,
	}, nil
}

// WithContext sets the context used by screen commands.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.search.WithContext(ctx)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("pensieve - Lifelog Archive"),
	)
}

// Update routes messages: app-level ones are handled here, the rest go
// to the active screen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.Resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == messages.ScreenHelp {
			if msg.Type == tea.KeyEsc {
				a.screen = messages.ScreenMenu
			}
			return a, nil
		}
		return a, a.dispatch(msg)

	case messages.Navigate:
		return a, a.navigate(msg.To)

	case messages.DayPicked:
		a.screen = messages.ScreenDay
		return a, a.day.SetDate(msg.Date)

	case messages.StatsReady:
		var cmd tea.Cmd
		a.days, cmd = a.days.Update(msg)
		return a, cmd

	case messages.DayEntriesReady:
		var cmd tea.Cmd
		a.day, cmd = a.day.Update(msg)
		return a, cmd

	case messages.SearchDone:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		a.err = a.search.Err()
		return a, cmd

	case messages.SyncNow:
		return a, a.runSync()

	case messages.SyncDone:
		var cmd tea.Cmd
		a.menu, cmd = a.menu.Update(msg)
		return a, cmd

	case messages.ErrMsg:
		a.err = msg.Err
		return a, a.dispatch(msg)
	}

	return a, a.dispatch(msg)
}

// dispatch forwards a message to the active screen.
func (a *App) dispatch(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.screen {
	case messages.ScreenMenu:
		a.menu, cmd = a.menu.Update(msg)
	case messages.ScreenDays:
		a.days, cmd = a.days.Update(msg)
	case messages.ScreenDay:
		a.day, cmd = a.day.Update(msg)
	case messages.ScreenSearch:
		a.search, cmd = a.search.Update(msg)
	case messages.ScreenHelp:
	}
	return cmd
}

// navigate switches screens, resetting those that start fresh.
func (a *App) navigate(to messages.Screen) tea.Cmd {
	a.screen = to
	switch to {
	case messages.ScreenSearch:
		a.search.Reset()
		return a.search.Init()
	case messages.ScreenDays:
		return a.days.Init()
	case messages.ScreenMenu, messages.ScreenDay, messages.ScreenHelp:
	}
	return nil
}

// runSync syncs every source and reports the outcome to the menu.
func (a *App) runSync() tea.Cmd {
	return func() tea.Msg {
		if a.services.Ingest == nil {
			return messages.SyncDone{Err: errors.New("ingest service not available")}
		}
		report, err := a.services.Ingest.SyncAll(a.ctx, driving.SyncOptions{Trigger: "tui"})
		return messages.SyncDone{Report: report, Err: err}
	}
}

// View renders the active screen.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.screen {
	case messages.ScreenDays:
		return a.days.View()
	case messages.ScreenDay:
		return a.day.View()
	case messages.ScreenSearch:
		return a.search.View()
	case messages.ScreenHelp:
		return helpText
	case messages.ScreenMenu:
	}
	return a.menu.View()
}

// Run starts the Bubbletea program.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Resize fits every screen to the terminal.
func (a *App) Resize(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menu.Resize(width, height)
	a.days.Resize(width, height)
	a.day.Resize(width, height)
	a.search.Resize(width, height)
}

// Screen returns the active screen.
func (a *App) Screen() messages.Screen {
	return a.screen
}

// Err returns the last error a screen reported.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}
