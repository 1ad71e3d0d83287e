package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"loom/internal/geom"
	"loom/internal/graph"
)

type fieldKind int

const (
	fieldTitle fieldKind = iota
	fieldContent
	fieldTags
	fieldColor
	fieldCollaborators
	fieldBreadcrumb
)

var fieldLabels = map[fieldKind]string{
	fieldTitle:         "Title",
	fieldContent:       "Content",
	fieldTags:          "Tags",
	fieldColor:         "Color",
	fieldCollaborators: "Collaborators",
	fieldBreadcrumb:    "Breadcrumb",
}

type field struct {
	kind  fieldKind
	input textinput.Model
}

// dialog is the small form used to create and edit notes. Content is a
// single line with \n standing in for newlines.
type dialog struct {
	heading string
	nodeID  string
	at      *geom.Point
	fields  []field
	focused int
}

func newField(kind fieldKind, value string) field {
	in := textinput.New()
	in.Prompt = ""
	in.Width = 40
	in.CharLimit = 2000
	in.SetValue(value)
	return field{kind: kind, input: in}
}

func newCreateDialog(title, content string, at *geom.Point) *dialog {
	return &dialog{
		heading: "New note",
		at:      at,
		fields: []field{
			newField(fieldTitle, title),
			newField(fieldContent, escapeNewlines(content)),
		},
	}
}

func newEditDialog(n graph.Node) *dialog {
	return &dialog{
		heading: "Edit note",
		nodeID:  n.ID,
		fields: []field{
			newField(fieldTitle, n.Title),
			newField(fieldContent, escapeNewlines(n.Content)),
			newField(fieldTags, strings.Join(n.Tags, ", ")),
			newField(fieldColor, n.Color),
			newField(fieldCollaborators, strings.Join(n.Collaborators, ", ")),
			newField(fieldBreadcrumb, n.Breadcrumb),
		},
	}
}

func (d *dialog) focus() tea.Cmd {
	for i := range d.fields {
		d.fields[i].input.Blur()
	}
	return d.fields[d.focused].input.Focus()
}

func (d *dialog) cycle(delta int) tea.Cmd {
	n := len(d.fields)
	d.focused = ((d.focused+delta)%n + n) % n
	return d.focus()
}

func (d *dialog) value(kind fieldKind) (string, bool) {
	for _, f := range d.fields {
		if f.kind == kind {
			return strings.TrimSpace(f.input.Value()), true
		}
	}
	return "", false
}

// patch collects the edited fields. Fields the dialog does not show stay
// nil so the store leaves them alone.
func (d *dialog) patch() graph.Patch {
	var p graph.Patch
	if v, ok := d.value(fieldTitle); ok {
		p.Title = &v
	}
	if v, ok := d.value(fieldContent); ok {
		c := unescapeNewlines(v)
		p.Content = &c
	}
	if v, ok := d.value(fieldTags); ok {
		tags := splitList(v)
		p.Tags = &tags
	}
	if v, ok := d.value(fieldColor); ok {
		p.Color = &v
	}
	if v, ok := d.value(fieldCollaborators); ok {
		c := splitList(v)
		p.Collaborators = &c
	}
	if v, ok := d.value(fieldBreadcrumb); ok {
		p.Breadcrumb = &v
	}
	return p
}

func (d *dialog) view(t dialogTheme) string {
	var b strings.Builder
	b.WriteString(t.heading.Render(d.heading))
	b.WriteString("\n\n")
	for i, f := range d.fields {
		label := fmt.Sprintf("%-14s", fieldLabels[f.kind])
		if i == d.focused {
			b.WriteString(t.active.Render(label))
		} else {
			b.WriteString(t.label.Render(label))
		}
		b.WriteString(f.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(t.hint.Render(`tab next · enter save · esc cancel · \n for newline`))
	return t.box.Render(b.String())
}

type dialogTheme struct {
	box, heading, label, active, hint lipgloss.Style
}

func newDialogTheme(accent, muted string) dialogTheme {
	return dialogTheme{
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(accent)).
			Padding(1, 2),
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
		active:  lipgloss.NewStyle().Bold(true),
		hint:    lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
	}
}

func (m *model) dialogKey(msg tea.KeyMsg) tea.Cmd {
	d := m.dialog
	if d == nil {
		m.closeDialog()
		return nil
	}
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m.quit()
	case key.Matches(msg, m.keys.Cancel):
		m.closeDialog()
		return nil
	case key.Matches(msg, m.keys.NextField):
		return d.cycle(1)
	case key.Matches(msg, m.keys.PrevField):
		return d.cycle(-1)
	case key.Matches(msg, m.keys.Confirm):
		m.submitDialog()
		return nil
	}
	var cmd tea.Cmd
	d.fields[d.focused].input, cmd = d.fields[d.focused].input.Update(msg)
	return cmd
}

func (m *model) submitDialog() {
	d := m.dialog
	p := d.patch()
	if p.Title == nil || *p.Title == "" {
		m.setError(fmt.Errorf("title cannot be empty"))
		return
	}
	if d.nodeID != "" {
		if _, err := m.surface.UpdateNode(d.nodeID, p); err != nil {
			m.setError(fmt.Errorf("edit: %w", err))
		} else {
			m.setStatus("saved " + *p.Title)
		}
		m.closeDialog()
		return
	}
	n, err := m.surface.CreateNode(*p.Title, d.at)
	if err == nil && p.Content != nil && *p.Content != "" {
		_, err = m.surface.UpdateNode(n.ID, graph.Patch{Content: p.Content})
	}
	if err != nil {
		m.setError(fmt.Errorf("create: %w", err))
	} else {
		m.setStatus("created " + n.Title)
	}
	m.closeDialog()
}

func escapeNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
