package render

import (
	"strings"
	"unicode/utf8"
)

// Style tags a cell so the theme can colour it when the grid is printed.
type Style int

const (
	StyleNone Style = iota
	StyleEdge
	StyleEdgeHover
	StylePreview
	StyleNode
	StyleSelected
	StyleTitle
	StyleAnchor
	StyleTarget
	StyleToolbar
	StyleMenu
	StyleMenuActive
)

// Grid is a rune raster the size of the canvas area. Every write is
// clipped to the grid.
type Grid struct {
	Width  int
	Height int
	cells  [][]rune
	styles [][]Style
}

func NewGrid(width, height int) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	g := &Grid{Width: width, Height: height}
	g.cells = make([][]rune, height)
	g.styles = make([][]Style, height)
	for y := range g.cells {
		g.cells[y] = make([]rune, width)
		g.styles[y] = make([]Style, width)
		for x := range g.cells[y] {
			g.cells[y][x] = ' '
		}
	}
	return g
}

func (g *Grid) inside(x, y int) bool {
	return y >= 0 && y < g.Height && x >= 0 && x < g.Width
}

func (g *Grid) Set(x, y int, r rune, s Style) {
	if !g.inside(x, y) {
		return
	}
	g.cells[y][x] = r
	g.styles[y][x] = s
}

// At returns the rune at a cell, or 0 outside the grid.
func (g *Grid) At(x, y int) rune {
	if !g.inside(x, y) {
		return 0
	}
	return g.cells[y][x]
}

func (g *Grid) StyleAt(x, y int) Style {
	if !g.inside(x, y) {
		return StyleNone
	}
	return g.styles[y][x]
}

// Text writes s from (x, y) and stops before column limit.
func (g *Grid) Text(x, y int, s string, st Style, limit int) {
	for _, r := range s {
		if x >= limit {
			return
		}
		g.Set(x, y, r, st)
		x++
	}
}

// Fill blanks a rectangle of cells.
func (g *Grid) Fill(x0, y0, x1, y1 int, st Style) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g.Set(x, y, ' ', st)
		}
	}
}

// Lines returns the grid as plain text rows.
func (g *Grid) Lines() []string {
	out := make([]string, g.Height)
	for y, row := range g.cells {
		out[y] = string(row)
	}
	return out
}

func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}

// Styled renders the grid with the theme, one lipgloss render per run of
// equally styled cells.
func (g *Grid) Styled(t Theme) string {
	var b strings.Builder
	for y, row := range g.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && g.styles[y][x] == g.styles[y][start] {
				continue
			}
			b.WriteString(t.style(g.styles[y][start]).Render(string(row[start:x])))
			start = x
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
