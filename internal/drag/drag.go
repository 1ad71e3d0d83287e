// Package drag moves a single node under the pointer.
//
// The controller has two states. Begin moves it from Idle to Dragging and
// attaches a global listener on the pointer bus; the pointer release,
// wherever it happens, moves it back to Idle and detaches the listener.
package drag

import (
	"log"

	"loom/internal/geom"
	"loom/internal/graph"
	"loom/internal/pointer"
)

// Nodes is the part of the store the controller needs.
type Nodes interface {
	Node(id string) (graph.Node, bool)
	MoveNode(id string, pos geom.Point) error
}

// State exists only while a drag is active.
type State struct {
	NodeID string
	// Offset is the canvas-space vector from the node origin to the
	// pointer at the moment the drag started.
	Offset geom.Point
}

type Controller struct {
	nodes    Nodes
	viewport func() geom.Viewport
	bus      *pointer.Bus

	state  *State
	handle pointer.Handle

	// OnMove is called after each position write.
	OnMove func(id string, pos geom.Point)
	// OnEnd is called once the drag has returned to Idle.
	OnEnd func(State)
}

func New(nodes Nodes, viewport func() geom.Viewport, bus *pointer.Bus) *Controller {
	return &Controller{nodes: nodes, viewport: viewport, bus: bus}
}

func (c *Controller) Active() bool {
	return c.state != nil
}

// State returns the active drag, if any.
func (c *Controller) State() (State, bool) {
	if c.state == nil {
		return State{}, false
	}
	return *c.state, true
}

// Begin starts dragging nodeID from the screen point. It refuses when a
// drag is already active or the node does not exist.
func (c *Controller) Begin(nodeID string, screen geom.Point) bool {
	if c.state != nil {
		return false
	}
	n, ok := c.nodes.Node(nodeID)
	if !ok {
		return false
	}
	at := geom.ScreenToCanvas(screen, c.viewport())
	c.state = &State{NodeID: nodeID, Offset: at.Sub(n.Position)}
	c.handle = c.bus.Attach(pointer.Listener{Move: c.move, Up: c.release})
	return true
}

// Position is where the dragged node belongs for a pointer at screen.
func (s State) Position(screen geom.Point, v geom.Viewport) geom.Point {
	return geom.ScreenToCanvas(screen, v).Sub(s.Offset)
}

func (c *Controller) move(screen geom.Point) {
	if c.state == nil {
		return
	}
	pos := c.state.Position(screen, c.viewport())
	if err := c.nodes.MoveNode(c.state.NodeID, pos); err != nil {
		// The node vanished under the pointer; nothing left to drag.
		log.Printf("drag: %v", err)
		c.exit()
		return
	}
	if c.OnMove != nil {
		c.OnMove(c.state.NodeID, pos)
	}
}

func (c *Controller) release(screen geom.Point) {
	if c.state == nil {
		return
	}
	c.move(screen)
	c.exit()
}

// Abort ends the drag without another position write. Positions are
// committed on every move, so there is nothing to roll back.
func (c *Controller) Abort() {
	c.exit()
}

func (c *Controller) exit() {
	c.handle.Detach()
	c.handle = pointer.Handle{}
	if c.state == nil {
		return
	}
	ended := *c.state
	c.state = nil
	if c.OnEnd != nil {
		c.OnEnd(ended)
	}
}
