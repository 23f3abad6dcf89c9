package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Tab       key.Binding
	Enter     key.Binding
	Start     key.Binding
	Complete  key.Binding
	Approve   key.Binding
	Hold      key.Binding
	Resume    key.Binding
	NextWeek  key.Binding
	TeamFeed  key.Binding
	Completed key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open project")),
	Start:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
	Complete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "complete")),
	Approve:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "approve")),
	Hold:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hold")),
	Resume:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
	NextWeek:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next week")),
	TeamFeed:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "team feed")),
	Completed: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "completed")),
	Refresh:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}
