// Package geom holds the canvas geometry: points, rectangles, the viewport
// transform between canvas space and screen space, node sides and the
// bezier paths used to draw connections.
package geom

import "math"

const (
	MinZoom = 0.1
	MaxZoom = 3.0
)

type Point struct {
	X, Y float64
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

type Size struct {
	Width, Height float64
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Min  Point
	Size Size
}

func (r Rect) Max() Point {
	return Point{X: r.Min.X + r.Size.Width, Y: r.Min.Y + r.Size.Height}
}

func (r Rect) Center() Point {
	return Point{X: r.Min.X + r.Size.Width/2, Y: r.Min.Y + r.Size.Height/2}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	max := r.Max()
	return p.X >= r.Min.X && p.X < max.X && p.Y >= r.Min.Y && p.Y < max.Y
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	rmax, omax := r.Max(), o.Max()
	min := Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)}
	max := Point{X: math.Max(rmax.X, omax.X), Y: math.Max(rmax.Y, omax.Y)}
	return Rect{Min: min, Size: Size{Width: max.X - min.X, Height: max.Y - min.Y}}
}

// Inset grows r by d on every side. A negative d shrinks it.
func (r Rect) Inset(d float64) Rect {
	return Rect{
		Min:  Point{X: r.Min.X - d, Y: r.Min.Y - d},
		Size: Size{Width: r.Size.Width + 2*d, Height: r.Size.Height + 2*d},
	}
}

// Viewport maps canvas space onto screen space. X and Y are the screen
// offset of the canvas origin, Zoom the scale factor.
type Viewport struct {
	X    float64
	Y    float64
	Zoom float64
}

// Identity is the viewport after a reset.
func Identity() Viewport {
	return Viewport{X: 0, Y: 0, Zoom: 1}
}

func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// CanvasToScreen converts a canvas point to screen space.
// Every conversion in the editor goes through this function or its inverse.
func CanvasToScreen(p Point, v Viewport) Point {
	return Point{X: p.X*v.Zoom + v.X, Y: p.Y*v.Zoom + v.Y}
}

// ScreenToCanvas converts a screen point to canvas space.
func ScreenToCanvas(p Point, v Viewport) Point {
	return Point{X: (p.X - v.X) / v.Zoom, Y: (p.Y - v.Y) / v.Zoom}
}

// RectToScreen transforms a canvas rectangle to screen space.
func RectToScreen(r Rect, v Viewport) Rect {
	min := CanvasToScreen(r.Min, v)
	max := CanvasToScreen(r.Max(), v)
	return Rect{Min: min, Size: Size{Width: max.X - min.X, Height: max.Y - min.Y}}
}
