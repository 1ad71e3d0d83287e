package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"loom/internal/geom"
	"loom/internal/graph"
)

var ErrEmpty = errors.New("nothing to export")

// ExportOptions size an export. Zero Width or Height frames the whole
// graph at zoom 1; otherwise the graph is fitted into that many cells
// (TXT) or pixels (PNG).
type ExportOptions struct {
	Width   int
	Height  int
	Padding float64
}

func (o ExportOptions) padding() float64 {
	if o.Padding <= 0 {
		return 2
	}
	return o.Padding
}

// frame returns the cell size and viewport that show every node.
func frame(nodes []graph.Node, opts ExportOptions) (geom.Size, geom.Viewport, error) {
	bounds, ok := graph.Bounds(nodes)
	if !ok {
		return geom.Size{}, geom.Viewport{}, ErrEmpty
	}
	pad := opts.padding()
	padded := bounds.Inset(pad)
	if opts.Width > 0 && opts.Height > 0 {
		size := geom.Size{Width: float64(opts.Width), Height: float64(opts.Height)}
		zoom := geom.ClampZoom(math.Min(size.Width/padded.Size.Width, size.Height/padded.Size.Height))
		c := bounds.Center()
		return size, geom.Viewport{
			X:    size.Width/2 - c.X*zoom,
			Y:    size.Height/2 - c.Y*zoom,
			Zoom: zoom,
		}, nil
	}
	size := geom.Size{Width: math.Ceil(padded.Size.Width), Height: math.Ceil(padded.Size.Height)}
	return size, geom.Viewport{X: -padded.Min.X, Y: -padded.Min.Y, Zoom: 1}, nil
}

// ExportText writes the graph as it appears in the terminal, without
// colour.
func ExportText(w io.Writer, nodes []graph.Node, conns []graph.Connection, opts ExportOptions) error {
	size, v, err := frame(nodes, opts)
	if err != nil {
		return err
	}
	g := NewGrid(int(size.Width), int(size.Height))
	Draw(g, Scene{Nodes: nodes, Connections: conns, Viewport: v})
	for _, line := range g.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write text export: %w", err)
		}
	}
	return nil
}

// Pixels per canvas unit in a PNG export.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// ExportPNG draws the graph with smooth curves and saves it to path.
func ExportPNG(path string, nodes []graph.Node, conns []graph.Connection, opts ExportOptions) error {
	cells, v, err := frame(nodes, ExportOptions{Padding: opts.Padding})
	if err != nil {
		return err
	}
	imgW, imgH := cells.Width*cellWidth, cells.Height*cellHeight
	scale := 1.0
	if opts.Width > 0 && opts.Height > 0 {
		scale = math.Min(float64(opts.Width)/imgW, float64(opts.Height)/imgH)
		imgW, imgH = float64(opts.Width), float64(opts.Height)
	}

	dc := gg.NewContext(int(math.Ceil(imgW)), int(math.Ceil(imgH)))
	dc.SetColor(color.White)
	dc.Clear()

	face, err := monoFace(12)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)
	dc.Scale(scale, scale)

	px := func(p geom.Point) (float64, float64) {
		s := geom.CanvasToScreen(p, v)
		return s.X * cellWidth, s.Y * cellHeight
	}

	dc.SetLineWidth(1.5)
	for _, c := range conns {
		from, to, ok := graph.Resolve(nodes, c)
		if !ok {
			continue
		}
		b := graph.Path(from, to, c)
		x0, y0 := px(b.P0)
		x1, y1 := px(b.C1)
		x2, y2 := px(b.C2)
		x3, y3 := px(b.P3)
		dc.SetColor(color.Gray{Y: 90})
		dc.MoveTo(x0, y0)
		dc.CubicTo(x1, y1, x2, y2, x3, y3)
		dc.Stroke()
		drawArrowPNG(dc, x2, y2, x3, y3)
	}

	for _, n := range nodes {
		x, y := px(n.Position)
		w, h := n.Size.Width*cellWidth, n.Size.Height*cellHeight
		dc.DrawRoundedRectangle(x, y, w, h, 6)
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(color.Black)
		if n.Color != "" {
			dc.SetHexColor(n.Color)
		}
		dc.Stroke()

		dc.SetColor(color.Black)
		line := y + cellHeight
		limit := int(n.Size.Width) - 2
		for i, text := range append([]string{n.Title}, strings.Split(n.Content, "\n")...) {
			if line+float64(i)*cellHeight > y+h-cellHeight/2 {
				break
			}
			dc.DrawString(truncate(text, limit), x+cellWidth, line+float64(i)*cellHeight)
		}
	}

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}

func monoFace(size float64) (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// drawArrowPNG fills an arrow head at (tx, ty) pointing away from (fx, fy).
func drawArrowPNG(dc *gg.Context, fx, fy, tx, ty float64) {
	dx, dy := tx-fx, ty-fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const size, spread = 8.0, 0.5
	dc.MoveTo(tx, ty)
	dc.LineTo(tx-size*dx+size*dy*spread, ty-size*dy-size*dx*spread)
	dc.LineTo(tx-size*dx-size*dy*spread, ty-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.Fill()
}
