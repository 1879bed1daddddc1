// Package keymap declares the TUI keybindings.
package keymap

import "github.com/charmbracelet/bubbles/key"

// Bindings holds every keybinding the TUI reacts to.
type Bindings struct {
	Up        key.Binding
	Down      key.Binding
	Confirm   key.Binding
	Back      key.Binding
	NewSearch key.Binding
	Sync      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// Default returns the stock keybindings.
func Default() Bindings {
	return Bindings{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		NewSearch: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new search")),
		Sync:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// GlobalHints is the hint set shown when no view claims the status bar.
func (b Bindings) GlobalHints() []key.Binding {
	return []key.Binding{b.Quit, b.Help}
}

// ResultHints is the hint set shown while search results are on screen.
func (b Bindings) ResultHints() []key.Binding {
	return []key.Binding{b.NewSearch, b.Up, b.Confirm, b.Back}
}

// HelpRows groups the bindings for the full help view.
func (b Bindings) HelpRows() [][]key.Binding {
	return [][]key.Binding{
		{b.Up, b.Down, b.Confirm},
		{b.NewSearch, b.Sync, b.Back},
		{b.Help, b.Quit},
	}
}
