package graph

import (
	"math"

	"loom/internal/geom"
)

// NodeAt returns the topmost node whose rectangle contains the canvas point.
func NodeAt(nodes []Node, p geom.Point) (Node, bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Rect().Contains(p) {
			return nodes[i], true
		}
	}
	return Node{}, false
}

// AnchorHit is a node side whose anchor lies under the pointer.
type AnchorHit struct {
	NodeID string
	Side   geom.Side
	Point  geom.Point
}

// AnchorAt returns the anchor closest to p within radius, preferring
// nodes painted on top when two anchors are equally close.
func AnchorAt(nodes []Node, p geom.Point, radius float64) (AnchorHit, bool) {
	best := AnchorHit{}
	bestDist := math.Inf(1)
	for i := len(nodes) - 1; i >= 0; i-- {
		for _, s := range geom.Sides() {
			a := nodes[i].Anchor(s)
			if d := a.Dist(p); d <= radius && d < bestDist {
				best = AnchorHit{NodeID: nodes[i].ID, Side: s, Point: a}
				bestDist = d
			}
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// Resolve looks up both endpoints of c. ok is false when either is gone.
func Resolve(nodes []Node, c Connection) (from, to Node, ok bool) {
	var haveFrom, haveTo bool
	for _, n := range nodes {
		switch n.ID {
		case c.FromNodeID:
			from, haveFrom = n, true
		case c.ToNodeID:
			to, haveTo = n, true
		}
	}
	return from, to, haveFrom && haveTo
}

// Path is the canvas-space curve of a resolved connection.
func Path(from, to Node, c Connection) geom.Bezier {
	return geom.EdgePath(from.Anchor(c.FromSide), c.FromSide, to.Anchor(c.ToSide), c.ToSide)
}

// Bounds is the union of every node rectangle. ok is false for no nodes.
func Bounds(nodes []Node) (geom.Rect, bool) {
	if len(nodes) == 0 {
		return geom.Rect{}, false
	}
	r := nodes[0].Rect()
	for _, n := range nodes[1:] {
		r = r.Union(n.Rect())
	}
	return r, true
}
