package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// PlayerKeyMap defines the key bindings of the frame player.
type PlayerKeyMap struct {
	Quit    key.Binding
	Back    key.Binding
	Pause   key.Binding
	Next    key.Binding
	Prev    key.Binding
	Capture key.Binding
	Block   key.Binding
	Help    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Next, k.Capture, k.Block, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlayerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Next, k.Prev},
		{k.Capture, k.Block},
		{k.Help, k.Back, k.Quit},
	}
}

// DefaultPlayerKeyMap returns the default player key bindings.
func DefaultPlayerKeyMap() PlayerKeyMap {
	return PlayerKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "tab"),
			key.WithHelp("n/tab", "next scene"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev scene"),
		),
		Capture: key.NewBinding(
			key.WithKeys("c", "ctrl+s"),
			key.WithHelp("c", "capture"),
		),
		Block: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "block"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// MenuKeyMap defines the key bindings of the scene picker.
type MenuKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Captures key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Captures, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultMenuKeyMap returns the default menu key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Captures: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "captures"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
