package geom

import "math"

const (
	controlRatio     = 0.3
	maxControlOffset = 100.0
)

// Bezier is a cubic bezier curve from P0 to P3.
type Bezier struct {
	P0, C1, C2, P3 Point
}

// ControlOffset is how far the control points sit from their anchors for
// a connection spanning distance.
func ControlOffset(distance float64) float64 {
	return math.Min(distance*controlRatio, maxControlOffset)
}

// EdgePath builds the curve of a connection leaving from on fromSide and
// entering to on toSide. Both control points extend along the outward
// normal of their side so the curve meets each node perpendicular to it.
func EdgePath(from Point, fromSide Side, to Point, toSide Side) Bezier {
	offset := ControlOffset(from.Dist(to))
	return Bezier{
		P0: from,
		C1: from.Add(Normal(fromSide).Scale(offset)),
		C2: to.Add(Normal(toSide).Scale(offset)),
		P3: to,
	}
}

// At evaluates the curve at t in [0, 1].
func (b Bezier) At(t float64) Point {
	u := 1 - t
	a := u * u * u
	c1 := 3 * u * u * t
	c2 := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*b.P0.X + c1*b.C1.X + c2*b.C2.X + d*b.P3.X,
		Y: a*b.P0.Y + c1*b.C1.Y + c2*b.C2.Y + d*b.P3.Y,
	}
}

func (b Bezier) Midpoint() Point {
	return b.At(0.5)
}

// Sample returns n+1 evenly spaced (in t) points along the curve.
func (b Bezier) Sample(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = b.At(float64(i) / float64(n))
	}
	return pts
}

// Transform maps every point of the curve through the viewport. Bezier
// curves are affine invariant, so this is exact.
func (b Bezier) Transform(v Viewport) Bezier {
	return Bezier{
		P0: CanvasToScreen(b.P0, v),
		C1: CanvasToScreen(b.C1, v),
		C2: CanvasToScreen(b.C2, v),
		P3: CanvasToScreen(b.P3, v),
	}
}

// Length approximates the arc length with a polyline.
func (b Bezier) Length() float64 {
	pts := b.Sample(16)
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].Dist(pts[i])
	}
	return total
}

// DistanceTo approximates the shortest distance from p to the curve.
func (b Bezier) DistanceTo(p Point) float64 {
	n := int(b.Length()) + 8
	best := math.Inf(1)
	pts := b.Sample(n)
	for i := 1; i < len(pts); i++ {
		if d := segmentDistance(p, pts[i-1], pts[i]); d < best {
			best = d
		}
	}
	return best
}

func segmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Add(ab.Scale(t)))
}
