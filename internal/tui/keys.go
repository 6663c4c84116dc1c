package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Focus     key.Binding
	Dec       key.Binding
	Inc       key.Binding
	DecCoarse key.Binding
	IncCoarse key.Binding
	Reset     key.Binding
	Conflicts key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default keybinding configuration.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "list/sliders"),
		),
		Dec: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-1"),
		),
		Inc: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+1"),
		),
		DecCoarse: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("⇧←", "-10"),
		),
		IncCoarse: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("⇧→", "+10"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset weights"),
		),
		Conflicts: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "conflicts only"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
