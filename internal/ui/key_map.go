package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	nextTab  key.Binding
	prevTab  key.Binding
	search   key.Binding
	accept   key.Binding
	back     key.Binding
	sort     key.Binding
	platform key.Binding
	more     key.Binding
	clear    key.Binding
	reload   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		nextTab:  key.NewBinding(key.WithKeys("tab", "l"), key.WithHelp("tab/l", "next tab")),
		prevTab:  key.NewBinding(key.WithKeys("shift+tab", "h"), key.WithHelp("shift+tab/h", "prev tab")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		accept:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		platform: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "platform")),
		more:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextTab, k.search, k.sort, k.more, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.nextTab, k.prevTab},
		{k.search, k.sort, k.platform, k.clear},
		{k.more, k.reload, k.quit},
	}
}
