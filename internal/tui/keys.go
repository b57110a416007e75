package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Toggle   key.Binding
	Proceed  key.Binding
	Abort    key.Binding
	Help     key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "b"),
		key.WithHelp("pgup/b", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", " ", "f"),
		key.WithHelp("pgdn/f", "page down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("tab", "d"),
		key.WithHelp("tab/d", "review/diff"),
	),
	Proceed: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "proceed"),
	),
	Abort: key.NewBinding(
		key.WithKeys("n", "N", "q", "esc", "ctrl+c"),
		key.WithHelp("n/q", "abort"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}
