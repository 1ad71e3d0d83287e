// Package connect implements the two-phase creation of a connection: press
// on a node anchor to start a draft, release over another node's anchor to
// commit it.
package connect

import (
	"errors"
	"log"

	"loom/internal/geom"
	"loom/internal/graph"
	"loom/internal/pointer"
)

// Target is a node side the draft could attach to.
type Target struct {
	NodeID string
	Side   geom.Side
}

// Draft exists only while a connection is being drawn.
type Draft struct {
	SourceID string
	Side     geom.Side
	// Anchor is the canvas position of the source anchor.
	Anchor geom.Point
	// Cursor is the canvas position of the pointer.
	Cursor geom.Point
	// Target is the valid anchor currently under the pointer, if any.
	Target *Target
}

// Path is the preview curve from the source anchor to the cursor. It
// latches onto the hovered target when there is one.
func (d Draft) Path(nodes []graph.Node) geom.Bezier {
	if d.Target != nil {
		for _, n := range nodes {
			if n.ID == d.Target.NodeID {
				return geom.EdgePath(d.Anchor, d.Side, n.Anchor(d.Target.Side), d.Target.Side)
			}
		}
	}
	return geom.EdgePath(d.Anchor, d.Side, d.Cursor, d.Side.Opposite())
}

// AnchorFinder returns the anchor under a screen point.
type AnchorFinder func(screen geom.Point) (graph.AnchorHit, bool)

type Outcome int

const (
	Committed Outcome = iota
	Rejected
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Rejected:
		return "rejected"
	default:
		return "cancelled"
	}
}

type Result struct {
	Outcome    Outcome
	Connection graph.Connection
}

type Controller struct {
	store    graph.Store
	viewport func() geom.Viewport
	bus      *pointer.Bus
	find     AnchorFinder

	draft  *Draft
	handle pointer.Handle

	// OnFinish is called whenever a draft ends, whichever way it ends.
	OnFinish func(Result)
}

func New(store graph.Store, viewport func() geom.Viewport, bus *pointer.Bus, find AnchorFinder) *Controller {
	return &Controller{store: store, viewport: viewport, bus: bus, find: find}
}

func (c *Controller) Active() bool {
	return c.draft != nil
}

// Draft returns a copy of the draft in progress.
func (c *Controller) Draft() (Draft, bool) {
	if c.draft == nil {
		return Draft{}, false
	}
	d := *c.draft
	if d.Target != nil {
		t := *d.Target
		d.Target = &t
	}
	return d, true
}

// Begin starts a draft from the given side of nodeID. The anchor comes
// from the node geometry, never from the pointer.
func (c *Controller) Begin(nodeID string, side geom.Side, screen geom.Point) bool {
	if c.draft != nil || !side.Valid() {
		return false
	}
	n, ok := c.store.Node(nodeID)
	if !ok {
		return false
	}
	c.draft = &Draft{
		SourceID: nodeID,
		Side:     side,
		Anchor:   n.Anchor(side),
		Cursor:   geom.ScreenToCanvas(screen, c.viewport()),
	}
	c.handle = c.bus.Attach(pointer.Listener{Move: c.move, Up: c.release})
	return true
}

func (c *Controller) target(screen geom.Point) (Target, bool) {
	if c.find == nil {
		return Target{}, false
	}
	hit, ok := c.find(screen)
	if !ok || hit.NodeID == c.draft.SourceID {
		return Target{}, false
	}
	return Target{NodeID: hit.NodeID, Side: hit.Side}, true
}

func (c *Controller) move(screen geom.Point) {
	if c.draft == nil {
		return
	}
	c.draft.Cursor = geom.ScreenToCanvas(screen, c.viewport())
	if t, ok := c.target(screen); ok {
		c.draft.Target = &t
	} else {
		c.draft.Target = nil
	}
}

func (c *Controller) release(screen geom.Point) {
	if c.draft == nil {
		return
	}
	d := *c.draft
	var hit graph.AnchorHit
	ok := false
	if c.find != nil {
		hit, ok = c.find(screen)
	}
	switch {
	case !ok:
		c.finish(Result{Outcome: Cancelled})
	case hit.NodeID == d.SourceID:
		c.finish(Result{Outcome: Rejected})
	default:
		conn, err := c.store.AddConnection(graph.Connection{
			FromNodeID: d.SourceID,
			ToNodeID:   hit.NodeID,
			FromSide:   d.Side,
			ToSide:     hit.Side,
		})
		if err != nil {
			if !errors.Is(err, graph.ErrDuplicateConnection) {
				log.Printf("connect: %v", err)
			}
			c.finish(Result{Outcome: Rejected})
			return
		}
		c.finish(Result{Outcome: Committed, Connection: conn})
	}
}

// Cancel drops the draft without touching the store.
func (c *Controller) Cancel() {
	if c.draft == nil {
		c.handle.Detach()
		return
	}
	c.finish(Result{Outcome: Cancelled})
}

func (c *Controller) finish(r Result) {
	c.handle.Detach()
	c.handle = pointer.Handle{}
	c.draft = nil
	if c.OnFinish != nil {
		c.OnFinish(r)
	}
}
