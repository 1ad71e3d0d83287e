package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines all keyboard shortcuts.
type keyMap struct {
	Pan       key.Binding
	Cancel    key.Binding
	Delete    key.Binding
	Confirm   key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	New       key.Binding
	Paste     key.Binding
	Edit      key.Binding
	Copy      key.Binding
	Duplicate key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Reset     key.Binding
	Fit       key.Binding
	Help      key.Binding
	Quit      key.Binding

	NextField key.Binding
	PrevField key.Binding
}

var defaultKeyMap = keyMap{
	Pan: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle pan (then drag)"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel / close menu"),
	),
	Delete: key.NewBinding(
		key.WithKeys("delete", "backspace", "x"),
		key.WithHelp("del/x", "delete selected node"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose menu item / save"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "pan up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "pan down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "pan left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "pan right"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new note"),
	),
	Paste: key.NewBinding(
		key.WithKeys("p", "ctrl+v"),
		key.WithHelp("p", "new note from clipboard"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit selected node"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c", "y"),
		key.WithHelp("c", "copy selected content"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "duplicate selected node"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	Reset: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset view"),
	),
	Fit: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "fit to screen"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
}

func (k keyMap) canvasBindings() []key.Binding {
	return []key.Binding{
		k.Pan, k.Up, k.Down, k.Left, k.Right, k.ZoomIn, k.ZoomOut, k.Reset, k.Fit,
		k.New, k.Paste, k.Edit, k.Copy, k.Duplicate, k.Delete,
		k.Cancel, k.Confirm, k.Help, k.Quit,
	}
}

func helpLine(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("  %-10s %s", h.Key, h.Desc)
}
