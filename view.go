package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"loom/internal/render"
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	switch m.mode {
	case modeHelp:
		return m.helpView()
	case modeCreate, modeEdit:
		if m.dialog != nil {
			box := m.dialog.view(newDialogTheme(m.cfg.Theme.Accent, m.cfg.Theme.Muted))
			return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box) +
				"\n" + m.statusLine()
		}
	}
	frame := render.Frame(m.surface.Snapshot())
	return frame.Styled(m.theme) + "\n" + m.statusLine()
}

func (m *model) statusLine() string {
	snap := m.surface.Snapshot()
	parts := []string{
		strings.ToUpper(snap.Mode.String()),
		fmt.Sprintf("%d%%", int(snap.Viewport.Zoom*100+0.5)),
		fmt.Sprintf("%d nodes %d edges", len(snap.Nodes), len(snap.Connections)),
	}
	if snap.SpaceHeld {
		parts = append(parts, "pan")
	}
	if n, ok := m.selected(); ok {
		parts = append(parts, "["+n.Title+"]")
	}
	if m.boardName != "" {
		parts = append(parts, filepath.Base(m.boardName))
	}
	line := " " + strings.Join(parts, "  ")
	if m.status != "" {
		st := m.theme.Status
		if m.failed {
			st = m.theme.Error
		}
		line += "  " + st.Render(m.status)
	} else {
		line += "  " + m.theme.Status.Render("? help")
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

func (m *model) helpView() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("loom"))
	b.WriteString("\n\nMouse\n")
	for _, l := range [][2]string{
		{"drag node", "move it"},
		{"drag ◦ handle", "connect to another node's handle"},
		{"space, drag", "pan the canvas"},
		{"wheel", "scroll (shift for sideways)"},
		{"ctrl/alt+wheel", "zoom at the pointer"},
		{"double click", "new note on empty canvas"},
		{"right click", "node or canvas menu"},
		{"click ✕", "delete the hovered connection"},
	} {
		fmt.Fprintf(&b, "  %-14s %s\n", l[0], l[1])
	}
	b.WriteString("\nKeys\n")
	for _, kb := range m.keys.canvasBindings() {
		b.WriteString(helpLine(kb))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Status.Render("press any key to return"))
	return lipgloss.NewStyle().Padding(1, 2).MaxHeight(m.height).Render(b.String())
}
