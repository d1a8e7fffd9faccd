package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the desktop keybindings.
type keyMap struct {
	NextWindow key.Binding
	PrevWindow key.Binding
	DockLeft   key.Binding
	DockRight  key.Binding
	DockOpen   key.Binding
	Icon       key.Binding
	Close      key.Binding
	Minimize   key.Binding
	Maximize   key.Binding
	Move       key.Binding
	Grow       key.Binding
	Shrink     key.Binding
	Arrange    key.Binding
	FocusDir   key.Binding
	Compose    key.Binding
	Theme      key.Binding
	Spotlight  key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextWindow, k.DockOpen, k.Spotlight, k.Theme, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextWindow, k.PrevWindow, k.FocusDir, k.Icon, k.Spotlight},
		{k.DockLeft, k.DockRight, k.DockOpen, k.Compose},
		{k.Close, k.Minimize, k.Maximize},
		{k.Move, k.Grow, k.Shrink, k.Arrange},
		{k.Theme, k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextWindow: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next window"),
		),
		PrevWindow: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev window"),
		),
		DockLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "dock left"),
		),
		DockRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "dock right"),
		),
		DockOpen: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "launch"),
		),
		Icon: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "desktop icon"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "minimize"),
		),
		Maximize: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "maximize"),
		),
		Move: key.NewBinding(
			key.WithKeys("shift+up", "shift+down", "shift+left", "shift+right"),
			key.WithHelp("shift+arrows", "move"),
		),
		Grow: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "grow"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "shrink"),
		),
		Arrange: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "arrange"),
		),
		FocusDir: key.NewBinding(
			key.WithKeys("alt+up", "alt+down", "alt+left", "alt+right"),
			key.WithHelp("alt+arrows", "focus neighbor"),
		),
		Compose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "write message"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Spotlight: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "spotlight"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
