// Package styles holds the colour palette and lipgloss styles shared by
// every TUI view.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colour tokens a theme provides.
type Palette struct {
	Accent    lipgloss.Color // headings, cursor
	AccentAlt lipgloss.Color // secondary headings
	Text      lipgloss.Color
	Faint     lipgloss.Color // hints, metadata
	Good      lipgloss.Color
	Warn      lipgloss.Color
	Bad       lipgloss.Color
	Frame     lipgloss.Color // borders
	BarBg     lipgloss.Color // status bar background
}

// Mocha is the default palette, after Catppuccin Mocha.
func Mocha() Palette {
	return Palette{
		Accent:    lipgloss.Color("#89B4FA"),
		AccentAlt: lipgloss.Color("#CBA6F7"),
		Text:      lipgloss.Color("#CDD6F4"),
		Faint:     lipgloss.Color("#6C7086"),
		Good:      lipgloss.Color("#A6E3A1"),
		Warn:      lipgloss.Color("#F9E2AF"),
		Bad:       lipgloss.Color("#F38BA8"),
		Frame:     lipgloss.Color("#45475A"),
		BarBg:     lipgloss.Color("#181825"),
	}
}

// Styles is the ready-to-render style set derived from a palette.
type Styles struct {
	Heading   lipgloss.Style
	Caption   lipgloss.Style
	Body      lipgloss.Style
	Faint     lipgloss.Style
	Highlight lipgloss.Style
	Good      lipgloss.Style
	Warn      lipgloss.Style
	Bad       lipgloss.Style
	Prompt    lipgloss.Style
	Bar       lipgloss.Style
	Hint      lipgloss.Style
	Frame     lipgloss.Style
}

// New derives styles from a palette.
func New(p Palette) Styles {
	return Styles{
		Heading:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Caption:   lipgloss.NewStyle().Bold(true).Foreground(p.AccentAlt),
		Body:      lipgloss.NewStyle().Foreground(p.Text),
		Faint:     lipgloss.NewStyle().Foreground(p.Faint),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.Accent),
		Good:      lipgloss.NewStyle().Foreground(p.Good),
		Warn:      lipgloss.NewStyle().Foreground(p.Warn),
		Bad:       lipgloss.NewStyle().Foreground(p.Bad),
		Prompt: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Frame).
			Padding(0, 1),
		Bar: lipgloss.NewStyle().
			Foreground(p.Faint).
			Background(p.BarBg).
			Padding(0, 1),
		Hint: lipgloss.NewStyle().Foreground(p.Faint),
		Frame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Frame),
	}
}

// Default returns the Mocha styles.
func Default() Styles {
	return New(Mocha())
}
