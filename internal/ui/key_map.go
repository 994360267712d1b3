package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	short     key.Binding
	medium    key.Binding
	long      key.Binding
	refresh   key.Binding
	switchTab key.Binding
	search    key.Binding
	enter     key.Binding
	back      key.Binding
	toggle    key.Binding
	all       key.Binding
	clear     key.Binding
	name      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		short:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "4 weeks")),
		medium:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "6 months")),
		long:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "all time")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		switchTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "playlist url")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		all:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		name:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new playlist")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.switchTab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.short, k.medium, k.long, k.refresh},
		{k.search, k.toggle, k.all, k.clear, k.name},
		{k.switchTab, k.back, k.quit},
	}
}
