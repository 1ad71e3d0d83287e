// Package render draws canvas scenes: into a terminal cell grid for the
// TUI and text export, and into a PNG image.
package render

import (
	"math"
	"strings"

	"loom/internal/connect"
	"loom/internal/geom"
	"loom/internal/graph"
	"loom/internal/surface"
)

// Scene is what gets drawn: the graph, the viewport, and the visual state
// that changes how it is drawn.
type Scene struct {
	Nodes       []graph.Node
	Connections []graph.Connection
	Viewport    geom.Viewport
	Selected    string
	HoverNode   string
	HoverConn   string
	Draft       *connect.Draft
}

type glyphs struct {
	h, v, up, down rune
}

var (
	idleGlyphs    = glyphs{h: '╌', v: '╎', up: '╱', down: '╲'}
	hoverGlyphs   = glyphs{h: '━', v: '┃', up: '╱', down: '╲'}
	previewGlyphs = glyphs{h: '┄', v: '┆', up: '╱', down: '╲'}
)

// Draw paints connections, the draft preview, then nodes on top.
func Draw(g *Grid, s Scene) {
	for _, c := range s.Connections {
		from, to, ok := graph.Resolve(s.Nodes, c)
		if !ok {
			continue
		}
		path := graph.Path(from, to, c).Transform(s.Viewport)
		if c.ID == s.HoverConn {
			drawCurve(g, path, c.FromSide, c.ToSide, hoverGlyphs, StyleEdgeHover)
			drawHoverMarkers(g, path, c.FromSide, c.ToSide)
		} else {
			drawCurve(g, path, c.FromSide, c.ToSide, idleGlyphs, StyleEdge)
			drawArrow(g, path.P3, c.ToSide, StyleEdge)
		}
	}

	if d := s.Draft; d != nil {
		toSide := d.Side.Opposite()
		if d.Target != nil {
			toSide = d.Target.Side
		}
		path := d.Path(s.Nodes).Transform(s.Viewport)
		drawCurve(g, path, d.Side, toSide, previewGlyphs, StylePreview)
	}

	for _, n := range s.Nodes {
		drawNode(g, n, s.Viewport, n.ID == s.Selected)
	}

	for _, n := range s.Nodes {
		if s.Draft == nil && n.ID != s.HoverNode && n.ID != s.Selected {
			continue
		}
		for _, side := range geom.Sides() {
			r, st := '◦', StyleAnchor
			if d := s.Draft; d != nil {
				if d.Target != nil && d.Target.NodeID == n.ID && d.Target.Side == side {
					r, st = '●', StyleTarget
				} else if d.SourceID == n.ID && d.Side == side {
					r, st = '●', StylePreview
				}
			}
			x, y := anchorCell(n, side, s.Viewport)
			g.Set(x, y, r, st)
		}
	}
}

// Frame draws an interactive frame: the scene plus toolbar and menu.
func Frame(snap surface.Snapshot) *Grid {
	g := NewGrid(int(snap.Size.Width), int(snap.Size.Height))
	Draw(g, Scene{
		Nodes:       snap.Nodes,
		Connections: snap.Connections,
		Viewport:    snap.Viewport,
		Selected:    snap.Selected,
		HoverNode:   snap.HoverNode,
		HoverConn:   snap.HoverConn,
		Draft:       snap.Draft,
	})
	for _, b := range snap.Toolbar {
		g.Text(int(b.Rect.Min.X), int(b.Rect.Min.Y), b.Label, StyleToolbar, g.Width)
	}
	if snap.Menu != nil {
		drawMenu(g, *snap.Menu, snap.Size)
	}
	return g
}

// cellRect is the cell span [x0,x1) x [y0,y1) a screen rect covers.
func cellRect(r geom.Rect) (x0, y0, x1, y1 int) {
	m := r.Max()
	return int(math.Round(r.Min.X)), int(math.Round(r.Min.Y)),
		int(math.Round(m.X)), int(math.Round(m.Y))
}

func anchorCell(n graph.Node, side geom.Side, v geom.Viewport) (int, int) {
	x0, y0, x1, y1 := cellRect(geom.RectToScreen(n.Rect(), v))
	cx, cy := x0+(x1-x0)/2, y0+(y1-y0)/2
	switch side {
	case geom.Top:
		return cx, y0
	case geom.Bottom:
		return cx, y1 - 1
	case geom.Left:
		return x0, cy
	default:
		return x1 - 1, cy
	}
}

// cellAt is the cell containing p. Anchors sit exactly on cell
// boundaries, so rounding noise from curve sampling is snapped first.
func cellAt(p geom.Point) (int, int) {
	const snap = 1e-6
	return int(math.Floor(p.X + snap)), int(math.Floor(p.Y + snap))
}

// endCell is the cell just outside a node side at a screen anchor point.
func endCell(p geom.Point, side geom.Side) (int, int) {
	return cellAt(p.Add(geom.Normal(side).Scale(0.5)))
}

func drawCurve(g *Grid, b geom.Bezier, fromSide, toSide geom.Side, gl glyphs, st Style) {
	n := int(b.Length()*3) + 8
	type cell struct{ x, y int }
	var cells []cell
	for _, p := range b.Sample(n) {
		x, y := cellAt(p)
		c := cell{x, y}
		if len(cells) > 0 && cells[len(cells)-1] == c {
			continue
		}
		cells = append(cells, c)
	}
	for i, c := range cells {
		var dx, dy int
		switch {
		case len(cells) == 1:
			dx = 1
		case i == 0:
			dx, dy = cells[1].x-c.x, cells[1].y-c.y
		default:
			dx, dy = c.x-cells[i-1].x, c.y-cells[i-1].y
		}
		g.Set(c.x, c.y, gl.pick(dx, dy), st)
	}
	fx, fy := endCell(b.P0, fromSide)
	g.Set(fx, fy, gl.pick(sideStep(fromSide)), st)
	tx, ty := endCell(b.P3, toSide)
	g.Set(tx, ty, gl.pick(sideStep(toSide)), st)
}

func sideStep(s geom.Side) (int, int) {
	n := geom.Normal(s)
	return int(n.X), int(n.Y)
}

func (gl glyphs) pick(dx, dy int) rune {
	switch {
	case dy == 0:
		return gl.h
	case dx == 0:
		return gl.v
	case (dx > 0) == (dy > 0):
		return gl.down
	default:
		return gl.up
	}
}

func drawArrow(g *Grid, p geom.Point, side geom.Side, st Style) {
	x, y := endCell(p, side)
	var r rune
	switch side {
	case geom.Top:
		r = '▼'
	case geom.Bottom:
		r = '▲'
	case geom.Left:
		r = '▶'
	default:
		r = '◀'
	}
	g.Set(x, y, r, st)
}

func drawHoverMarkers(g *Grid, b geom.Bezier, fromSide, toSide geom.Side) {
	x, y := endCell(b.P0, fromSide)
	g.Set(x, y, '●', StyleEdgeHover)
	x, y = endCell(b.P3, toSide)
	g.Set(x, y, '●', StyleEdgeHover)
	mid := b.Midpoint()
	mx, my := cellAt(mid)
	g.Set(mx, my, '✕', StyleEdgeHover)
}

type border struct {
	tl, tr, bl, br, h, v rune
}

var (
	nodeBorder     = border{'╭', '╮', '╰', '╯', '─', '│'}
	selectedBorder = border{'┏', '┓', '┗', '┛', '━', '┃'}
)

func drawNode(g *Grid, n graph.Node, v geom.Viewport, selected bool) {
	x0, y0, x1, y1 := cellRect(geom.RectToScreen(n.Rect(), v))
	st, bd := StyleNode, nodeBorder
	if selected {
		st, bd = StyleSelected, selectedBorder
	}
	if x1-x0 < 3 || y1-y0 < 3 {
		for y := y0; y < max(y1, y0+1); y++ {
			for x := x0; x < max(x1, x0+1); x++ {
				g.Set(x, y, '▒', st)
			}
		}
		return
	}

	g.Fill(x0, y0, x1, y1, st)
	for x := x0 + 1; x < x1-1; x++ {
		g.Set(x, y0, bd.h, st)
		g.Set(x, y1-1, bd.h, st)
	}
	for y := y0 + 1; y < y1-1; y++ {
		g.Set(x0, y, bd.v, st)
		g.Set(x1-1, y, bd.v, st)
	}
	g.Set(x0, y0, bd.tl, st)
	g.Set(x1-1, y0, bd.tr, st)
	g.Set(x0, y1-1, bd.bl, st)
	g.Set(x1-1, y1-1, bd.br, st)

	inner := x1 - x0 - 2
	if n.Breadcrumb != "" && inner > 4 {
		g.Text(x0+2, y0, truncate(n.Breadcrumb, inner-2), st, x1-1)
	}

	lines := []string{n.Title}
	lines = append(lines, strings.Split(n.Content, "\n")...)
	rows := y1 - y0 - 2
	if len(n.Tags) > 0 && rows > 2 {
		rows--
		tags := "#" + strings.Join(n.Tags, " #")
		g.Text(x0+1, y1-2, truncate(tags, inner), st, x1-1)
	}
	for i, line := range lines {
		if i >= rows {
			break
		}
		ls := st
		if i == 0 {
			ls = StyleTitle
		}
		g.Text(x0+1, y0+1+i, truncate(line, inner), ls, x1-1)
	}
}

func drawMenu(g *Grid, m surface.Menu, screen geom.Size) {
	x0, y0, x1, y1 := cellRect(m.Rect(screen))
	g.Fill(x0, y0, x1, y1, StyleMenu)
	for x := x0 + 1; x < x1-1; x++ {
		g.Set(x, y0, '─', StyleMenu)
		g.Set(x, y1-1, '─', StyleMenu)
	}
	for y := y0 + 1; y < y1-1; y++ {
		g.Set(x0, y, '│', StyleMenu)
		g.Set(x1-1, y, '│', StyleMenu)
	}
	g.Set(x0, y0, '┌', StyleMenu)
	g.Set(x1-1, y0, '┐', StyleMenu)
	g.Set(x0, y1-1, '└', StyleMenu)
	g.Set(x1-1, y1-1, '┘', StyleMenu)
	for i, a := range m.Items {
		st := StyleMenu
		if i == m.Selected {
			st = StyleMenuActive
		}
		row := y0 + 1 + i
		g.Fill(x0+1, row, x1-1, row+1, st)
		g.Text(x0+2, row, a.Label(), st, x1-1)
	}
}
