package render

import "github.com/charmbracelet/lipgloss"

// Colors are the configurable theme colours, any value lipgloss.Color
// accepts.
type Colors struct {
	Edge     string
	Accent   string
	Node     string
	Selected string
	Muted    string
}

func DefaultColors() Colors {
	return Colors{
		Edge:     "244",
		Accent:   "212",
		Node:     "252",
		Selected: "86",
		Muted:    "240",
	}
}

type Theme struct {
	Edge       lipgloss.Style
	EdgeHover  lipgloss.Style
	Preview    lipgloss.Style
	Node       lipgloss.Style
	Selected   lipgloss.Style
	Title      lipgloss.Style
	Anchor     lipgloss.Style
	Target     lipgloss.Style
	Toolbar    lipgloss.Style
	Menu       lipgloss.Style
	MenuActive lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
}

func NewTheme(c Colors) Theme {
	accent := lipgloss.Color(c.Accent)
	return Theme{
		Edge:       lipgloss.NewStyle().Foreground(lipgloss.Color(c.Edge)),
		EdgeHover:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		Preview:    lipgloss.NewStyle().Foreground(accent),
		Node:       lipgloss.NewStyle().Foreground(lipgloss.Color(c.Node)),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.Selected)).Bold(true),
		Title:      lipgloss.NewStyle().Foreground(lipgloss.Color(c.Node)).Bold(true),
		Anchor:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)),
		Target:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		Toolbar:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)),
		Menu:       lipgloss.NewStyle().Foreground(lipgloss.Color(c.Node)),
		MenuActive: lipgloss.NewStyle().Reverse(true),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Muted)),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Plain is a theme without any colour.
func Plain() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Edge: s, EdgeHover: s, Preview: s, Node: s, Selected: s, Title: s,
		Anchor: s, Target: s, Toolbar: s, Menu: s, MenuActive: s, Status: s, Error: s,
	}
}

func (t Theme) style(s Style) lipgloss.Style {
	switch s {
	case StyleEdge:
		return t.Edge
	case StyleEdgeHover:
		return t.EdgeHover
	case StylePreview:
		return t.Preview
	case StyleNode:
		return t.Node
	case StyleSelected:
		return t.Selected
	case StyleTitle:
		return t.Title
	case StyleAnchor:
		return t.Anchor
	case StyleTarget:
		return t.Target
	case StyleToolbar:
		return t.Toolbar
	case StyleMenu:
		return t.Menu
	case StyleMenuActive:
		return t.MenuActive
	default:
		return lipgloss.NewStyle()
	}
}
