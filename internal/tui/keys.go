package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Detail   key.Binding
	Back     key.Binding
	Forward  key.Binding
	Backward key.Binding
	Approval key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "column")),
	Right:    key.NewBinding(key.WithKeys("l", "right")),
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "card")),
	Down:     key.NewBinding(key.WithKeys("j", "down")),
	Detail:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "detail")),
	Back:     key.NewBinding(key.WithKeys("esc")),
	Forward:  key.NewBinding(key.WithKeys(">", "L"), key.WithHelp("</>", "move")),
	Backward: key.NewBinding(key.WithKeys("<", "H")),
	Approval: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approvals")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// shortHelp lists the bindings shown in the status bar.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.Detail, k.Forward, k.Approval, k.Reload, k.Quit}
}
