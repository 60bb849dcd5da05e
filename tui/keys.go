package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"markestedt/copyman/overlay"
)

// KeyMap holds the front end's own bindings. Digits and Escape in the
// Main view are not listed here; they go through the overlay dispatcher.
type KeyMap struct {
	Settings key.Binding
	Back     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Commit   key.Binding
	Theme    key.Binding
	Quit     key.Binding
}

// DefaultKeyMap is the built-in binding set
var DefaultKeyMap = KeyMap{
	Settings: key.NewBinding(
		key.WithKeys("s", "ctrl+s"),
		key.WithHelp("s", "settings"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab/↓", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab/↑", "prev"),
	),
	Commit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Theme: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "theme"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// eventKey names a terminal key the way overlay key events do
func eventKey(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyEsc:
		return overlay.KeyEscape
	case tea.KeyEnter:
		return overlay.KeyEnter
	case tea.KeyTab:
		return overlay.KeyTab
	case tea.KeyBackspace:
		return overlay.KeyBackspace
	case tea.KeyUp:
		return overlay.KeyArrowUp
	case tea.KeyDown:
		return overlay.KeyArrowDown
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Alt {
			return string(msg.Runes)
		}
	}
	return msg.String()
}
