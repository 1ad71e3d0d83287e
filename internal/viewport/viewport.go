// Package viewport owns the pan and zoom of the canvas.
//
// The package level functions are pure: each takes the current viewport
// and returns the next one. Controller holds the live value and is the
// only thing that writes it.
package viewport

import (
	"math"

	"loom/internal/geom"
	"loom/internal/graph"
)

// Pan translates the viewport by a screen-space delta.
func Pan(v geom.Viewport, dx, dy float64) geom.Viewport {
	v.X += dx
	v.Y += dy
	return v
}

// ZoomAt scales the viewport by factor while keeping the canvas point
// under screen point s fixed on screen.
func ZoomAt(v geom.Viewport, s geom.Point, factor float64) geom.Viewport {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return v
	}
	zoom := geom.ClampZoom(v.Zoom)
	newZoom := geom.ClampZoom(zoom * factor)
	ratio := newZoom / zoom
	return geom.Viewport{
		X:    s.X - (s.X-v.X)*ratio,
		Y:    s.Y - (s.Y-v.Y)*ratio,
		Zoom: newZoom,
	}
}

// Fit frames bounds, grown by margin canvas units, inside a screen of the
// given size. The zoom never exceeds 1 so small graphs are not blown up.
func Fit(v geom.Viewport, bounds geom.Rect, size geom.Size, margin float64) geom.Viewport {
	if size.Empty() {
		return v
	}
	padded := bounds.Inset(margin)
	zoom := 1.0
	if padded.Size.Width > 0 {
		zoom = math.Min(zoom, size.Width/padded.Size.Width)
	}
	if padded.Size.Height > 0 {
		zoom = math.Min(zoom, size.Height/padded.Size.Height)
	}
	zoom = geom.ClampZoom(zoom)
	c := padded.Center()
	return geom.Viewport{
		X:    size.Width/2 - c.X*zoom,
		Y:    size.Height/2 - c.Y*zoom,
		Zoom: zoom,
	}
}

type Controller struct {
	v      geom.Viewport
	margin float64

	// OnChange is called after every change that altered the viewport.
	OnChange func(geom.Viewport)
}

func NewController(margin float64) *Controller {
	return &Controller{v: geom.Identity(), margin: margin}
}

func (c *Controller) Viewport() geom.Viewport {
	return c.v
}

// Set replaces the viewport, clamping its zoom.
func (c *Controller) Set(v geom.Viewport) {
	v.Zoom = geom.ClampZoom(v.Zoom)
	c.commit(v)
}

func (c *Controller) SetMargin(margin float64) {
	c.margin = margin
}

func (c *Controller) Pan(dx, dy float64) {
	c.commit(Pan(c.v, dx, dy))
}

func (c *Controller) ZoomAt(s geom.Point, factor float64) {
	c.commit(ZoomAt(c.v, s, factor))
}

func (c *Controller) Reset() {
	c.commit(geom.Identity())
}

// FitToScreen frames every node. It does nothing for an empty graph.
func (c *Controller) FitToScreen(nodes []graph.Node, size geom.Size) {
	bounds, ok := graph.Bounds(nodes)
	if !ok {
		return
	}
	c.commit(Fit(c.v, bounds, size, c.margin))
}

func (c *Controller) commit(next geom.Viewport) {
	if next == c.v {
		return
	}
	c.v = next
	if c.OnChange != nil {
		c.OnChange(next)
	}
}
