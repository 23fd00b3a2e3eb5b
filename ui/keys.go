package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit       key.Binding
	up         key.Binding
	down       key.Binding
	pageUp     key.Binding
	pageDown   key.Binding
	top        key.Binding
	bottom     key.Binding
	open       key.Binding
	back       key.Binding
	browser    key.Binding
	history    key.Binding
	nextFocus  key.Binding
	star       key.Binding
	copyPaths  key.Binding
	retry      key.Binding
	deleteItem key.Binding
	toggleHelp key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		pageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		pageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d", " "),
			key.WithHelp("pgdn", "page down"),
		),
		top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		browser: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "files"),
		),
		history: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "history"),
		),
		nextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		star: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "star"),
		),
		copyPaths: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy paths"),
		),
		retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		deleteItem: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.open, k.back, k.browser, k.history, k.star, k.copyPaths, k.toggleHelp, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.pageUp, k.pageDown, k.top, k.bottom},
		{k.open, k.back, k.browser, k.history, k.nextFocus},
		{k.star, k.copyPaths, k.retry, k.deleteItem},
		{k.toggleHelp, k.quit},
	}
}
