package viewport

import (
	"math"

	"loom/internal/geom"
)

// Wheel is one scroll event at a screen position.
type Wheel struct {
	Pos    geom.Point
	DeltaX float64
	DeltaY float64
	Ctrl   bool
}

// WheelPolicy decides whether a wheel event zooms or pans. Terminals give
// no reliable pinch signal, so ZoomThreshold and ZoomStep are tunables.
type WheelPolicy struct {
	// ZoomThreshold is the |DeltaY| above which an event counts as a
	// pinch gesture even without ctrl.
	ZoomThreshold float64
	// ZoomStep is the zoom factor applied per zooming wheel event.
	ZoomStep float64
}

func DefaultWheelPolicy() WheelPolicy {
	return WheelPolicy{ZoomThreshold: 50, ZoomStep: 1.1}
}

type WheelAction int

const (
	WheelIgnored WheelAction = iota
	WheelZoomed
	WheelPanned
)

func (a WheelAction) String() string {
	switch a {
	case WheelZoomed:
		return "zoomed"
	case WheelPanned:
		return "panned"
	default:
		return "ignored"
	}
}

// IsZoomGesture reports whether w should zoom rather than pan.
func (p WheelPolicy) IsZoomGesture(w Wheel) bool {
	return w.Ctrl || math.Abs(w.DeltaY) > p.ZoomThreshold
}

// Factor is the zoom factor for a zooming wheel event. Scrolling up
// (negative DeltaY) zooms in.
func (p WheelPolicy) Factor(w Wheel) float64 {
	step := p.ZoomStep
	if step <= 1 {
		step = DefaultWheelPolicy().ZoomStep
	}
	switch {
	case w.DeltaY < 0:
		return step
	case w.DeltaY > 0:
		return 1 / step
	default:
		return 1
	}
}

// Wheel applies the routing policy. panGesture is true while a pan
// modifier is already held; plain scrolling is then ignored.
func (c *Controller) Wheel(p WheelPolicy, w Wheel, panGesture bool) WheelAction {
	if p.IsZoomGesture(w) {
		before := c.v
		c.ZoomAt(w.Pos, p.Factor(w))
		if c.v == before {
			return WheelIgnored
		}
		return WheelZoomed
	}
	if panGesture {
		return WheelIgnored
	}
	c.Pan(-w.DeltaX, -w.DeltaY)
	return WheelPanned
}
