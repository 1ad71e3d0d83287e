// Package surface is the single event surface of the canvas. It routes
// pointer, wheel and key events to the viewport, drag and connection
// controllers and keeps the transient interaction state in one place.
package surface

import (
	"fmt"
	"log"
	"math"

	"loom/internal/connect"
	"loom/internal/drag"
	"loom/internal/geom"
	"loom/internal/graph"
	"loom/internal/pointer"
	"loom/internal/viewport"
)

type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModeDragging
	ModeConnecting
)

func (m Mode) String() string {
	switch m {
	case ModePanning:
		return "panning"
	case ModeDragging:
		return "dragging"
	case ModeConnecting:
		return "connecting"
	default:
		return "idle"
	}
}

type Cursor int

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
	CursorCrosshair
)

func (c Cursor) String() string {
	switch c {
	case CursorGrab:
		return "grab"
	case CursorGrabbing:
		return "grabbing"
	case CursorCrosshair:
		return "crosshair"
	default:
		return "default"
	}
}

// State is the transient interaction state. Only the event handlers in
// this package mutate it.
type State struct {
	Mode      Mode
	SpaceHeld bool
	Pointer   geom.Point
	PanFrom   geom.Point
	Selected  string
	HoverNode string
	HoverConn string
	Menu      *Menu
	Size      geom.Size
}

type Options struct {
	NodeSize        geom.Size
	DuplicateOffset geom.Point
	FitMargin       float64
	Wheel           viewport.WheelPolicy
	// ZoomStep is the factor used by the toolbar zoom buttons.
	ZoomStep float64
	PanStep  float64
	// AnchorRadius and EdgeHoverRadius are in screen cells.
	AnchorRadius    float64
	EdgeHoverRadius float64
	NewNodeTitle    string
}

func DefaultOptions() Options {
	return Options{
		NodeSize:        geom.Size{Width: 24, Height: 7},
		DuplicateOffset: geom.Pt(4, 2),
		FitMargin:       2,
		Wheel:           viewport.DefaultWheelPolicy(),
		ZoomStep:        1.25,
		PanStep:         4,
		AnchorRadius:    1,
		EdgeHoverRadius: 1,
		NewNodeTitle:    "New note",
	}
}

// Collaborators are the outer components the surface calls into.
type Collaborators struct {
	// Open asks the editor panel to edit a node.
	Open func(nodeID string)
	// Copy puts text on the clipboard.
	Copy func(text string) error
}

// Snapshot is everything a renderer needs to draw one frame.
type Snapshot struct {
	Nodes       []graph.Node
	Connections []graph.Connection
	Viewport    geom.Viewport
	Size        geom.Size
	Mode        Mode
	Cursor      Cursor
	SpaceHeld   bool
	Selected    string
	HoverNode   string
	HoverConn   string
	Dragging    string
	Draft       *connect.Draft
	Toolbar     []Button
	Menu        *Menu
}

type Surface struct {
	store  graph.Store
	opts   Options
	collab Collaborators

	bus  *pointer.Bus
	view *viewport.Controller
	drag *drag.Controller
	conn *connect.Controller

	state     State
	panHandle pointer.Handle
	toolbar   []Button

	observers map[int]func(Snapshot)
	nextObs   int
}

func New(store graph.Store, opts Options, collab Collaborators) *Surface {
	s := &Surface{
		store:     store,
		opts:      opts,
		collab:    collab,
		bus:       pointer.NewBus(),
		view:      viewport.NewController(opts.FitMargin),
		toolbar:   Toolbar(),
		observers: map[int]func(Snapshot){},
	}
	s.drag = drag.New(store, s.view.Viewport, s.bus)
	s.drag.OnEnd = func(drag.State) { s.state.Mode = ModeIdle }
	s.conn = connect.New(store, s.view.Viewport, s.bus, s.anchorAt)
	s.conn.OnFinish = func(r connect.Result) {
		s.state.Mode = ModeIdle
		if r.Outcome == connect.Committed {
			log.Printf("connected %s:%s -> %s:%s", r.Connection.FromNodeID, r.Connection.FromSide,
				r.Connection.ToNodeID, r.Connection.ToSide)
		}
	}
	return s
}

// SetOptions applies reloaded options. Transient state is left alone.
func (s *Surface) SetOptions(opts Options) {
	s.opts = opts
	s.view.SetMargin(opts.FitMargin)
	s.notify()
}

func (s *Surface) Options() Options { return s.opts }
func (s *Surface) Nodes() []graph.Node { return s.store.Nodes() }
func (s *Surface) Connections() []graph.Connection { return s.store.Connections() }
func (s *Surface) Viewport() geom.Viewport { return s.view.Viewport() }
func (s *Surface) State() State { return s.state }

// Listeners is the number of listeners attached to the pointer bus.
func (s *Surface) Listeners() int { return s.bus.Len() }

func (s *Surface) SetViewport(v geom.Viewport) {
	s.view.Set(v)
	s.notify()
}

func (s *Surface) Cursor() Cursor {
	switch {
	case s.conn.Active():
		return CursorCrosshair
	case s.state.Mode == ModePanning:
		return CursorGrabbing
	case s.state.SpaceHeld:
		return CursorGrab
	default:
		return CursorDefault
	}
}

func (s *Surface) Snapshot() Snapshot {
	snap := Snapshot{
		Nodes:       s.store.Nodes(),
		Connections: s.store.Connections(),
		Viewport:    s.view.Viewport(),
		Size:        s.state.Size,
		Mode:        s.state.Mode,
		Cursor:      s.Cursor(),
		SpaceHeld:   s.state.SpaceHeld,
		Selected:    s.state.Selected,
		HoverNode:   s.state.HoverNode,
		HoverConn:   s.state.HoverConn,
		Toolbar:     s.toolbar,
	}
	if st, ok := s.drag.State(); ok {
		snap.Dragging = st.NodeID
	}
	if d, ok := s.conn.Draft(); ok {
		snap.Draft = &d
	}
	if s.state.Menu != nil {
		m := *s.state.Menu
		snap.Menu = &m
	}
	return snap
}

// Subscribe registers fn to be called after every dispatched event. The
// returned func unregisters it.
func (s *Surface) Subscribe(fn func(Snapshot)) func() {
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() { delete(s.observers, id) }
}

func (s *Surface) notify() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, fn := range s.observers {
		fn(snap)
	}
}

// Dispatch routes one event and notifies observers.
func (s *Surface) Dispatch(ev Event) {
	switch e := ev.(type) {
	case PointerDown:
		s.pointerDown(e)
	case PointerMove:
		s.pointerMove(e)
	case PointerUp:
		s.pointerUp(e)
	case DoubleClick:
		s.doubleClick(e)
	case Wheel:
		s.wheel(e)
	case KeyDown:
		s.keyDown(e)
	case KeyUp:
		s.keyUp(e)
	case ContextMenu:
		s.contextMenu(e)
	case Resize:
		s.state.Size = e.Size
	case Teardown:
		s.teardown()
	}
	s.notify()
}

func (s *Surface) canvas(p geom.Point) geom.Point {
	return geom.ScreenToCanvas(p, s.view.Viewport())
}

func (s *Surface) nodeAt(p geom.Point) (graph.Node, bool) {
	return graph.NodeAt(s.store.Nodes(), s.canvas(p))
}

// anchorAt finds the anchor handle under a screen point. The radius is
// kept constant on screen whatever the zoom.
func (s *Surface) anchorAt(p geom.Point) (graph.AnchorHit, bool) {
	v := s.view.Viewport()
	return graph.AnchorAt(s.store.Nodes(), geom.ScreenToCanvas(p, v), s.opts.AnchorRadius/v.Zoom)
}

// connectionAt returns the connection whose drawn curve passes closest to
// p within the hover radius. Nodes cover the edges below them.
func (s *Surface) connectionAt(p geom.Point) (graph.Connection, bool) {
	nodes := s.store.Nodes()
	if _, over := graph.NodeAt(nodes, s.canvas(p)); over {
		return graph.Connection{}, false
	}
	v := s.view.Viewport()
	best, bestDist, found := graph.Connection{}, math.Inf(1), false
	for _, c := range s.store.Connections() {
		from, to, ok := graph.Resolve(nodes, c)
		if !ok {
			continue
		}
		d := graph.Path(from, to, c).Transform(v).DistanceTo(p)
		if d <= s.opts.EdgeHoverRadius && d < bestDist {
			best, bestDist, found = c, d, true
		}
	}
	return best, found
}

// midpointHit reports whether p is on the delete affordance of the
// hovered connection.
func (s *Surface) midpointHit(p geom.Point) (string, bool) {
	if s.state.HoverConn == "" {
		return "", false
	}
	nodes := s.store.Nodes()
	for _, c := range s.store.Connections() {
		if c.ID != s.state.HoverConn {
			continue
		}
		from, to, ok := graph.Resolve(nodes, c)
		if !ok {
			return "", false
		}
		mid := geom.CanvasToScreen(graph.Path(from, to, c).Midpoint(), s.view.Viewport())
		if math.Abs(p.X-mid.X) <= 1 && math.Abs(p.Y-mid.Y) <= 0.5 {
			return c.ID, true
		}
		return "", false
	}
	return "", false
}

func (s *Surface) pointerDown(e PointerDown) {
	s.state.Pointer = e.Pos
	if e.Button != ButtonLeft || s.state.Mode != ModeIdle {
		return
	}

	if m := s.state.Menu; m != nil {
		if i, ok := m.ItemAt(e.Pos, s.state.Size); ok {
			s.activate(m, m.Items[i])
			return
		}
		s.state.Menu = nil
	}
	if b, ok := buttonAt(s.toolbar, e.Pos); ok {
		s.Exec(b.Command)
		return
	}
	if id, ok := s.midpointHit(e.Pos); ok {
		if err := s.store.DeleteConnection(id); err != nil {
			log.Printf("delete connection: %v", err)
		}
		s.state.HoverConn = ""
		return
	}

	switch {
	case s.state.SpaceHeld:
		s.startPan(e.Pos)
	default:
		if hit, ok := s.anchorAt(e.Pos); ok {
			if s.conn.Begin(hit.NodeID, hit.Side, e.Pos) {
				s.state.Mode = ModeConnecting
			}
			return
		}
		if n, ok := s.nodeAt(e.Pos); ok {
			s.state.Selected = n.ID
			if s.drag.Begin(n.ID, e.Pos) {
				s.state.Mode = ModeDragging
			}
			return
		}
		s.state.Selected = ""
	}
}

func (s *Surface) pointerMove(e PointerMove) {
	s.state.Pointer = e.Pos
	s.bus.Move(e.Pos)
	s.updateHover(e.Pos)
}

func (s *Surface) pointerUp(e PointerUp) {
	s.state.Pointer = e.Pos
	if e.Button != ButtonLeft {
		return
	}
	s.bus.Up(e.Pos)
	s.updateHover(e.Pos)
}

func (s *Surface) updateHover(p geom.Point) {
	if s.state.Mode != ModeIdle {
		s.state.HoverConn = ""
		s.state.HoverNode = ""
		return
	}
	if n, ok := s.nodeAt(p); ok {
		s.state.HoverNode = n.ID
	} else {
		s.state.HoverNode = ""
	}
	// Keep the hovered edge while the pointer sits on its affordance.
	if _, ok := s.midpointHit(p); ok {
		return
	}
	if c, ok := s.connectionAt(p); ok {
		s.state.HoverConn = c.ID
	} else {
		s.state.HoverConn = ""
	}
}

func (s *Surface) startPan(p geom.Point) {
	s.state.Mode = ModePanning
	s.state.PanFrom = p
	s.panHandle = s.bus.Attach(pointer.Listener{Move: s.panMove, Up: s.panEnd})
}

func (s *Surface) panMove(p geom.Point) {
	d := p.Sub(s.state.PanFrom)
	s.state.PanFrom = p
	s.view.Pan(d.X, d.Y)
}

func (s *Surface) panEnd(p geom.Point) {
	s.panMove(p)
	s.stopPan()
}

func (s *Surface) stopPan() {
	s.panHandle.Detach()
	s.panHandle = pointer.Handle{}
	if s.state.Mode == ModePanning {
		s.state.Mode = ModeIdle
	}
}

func (s *Surface) doubleClick(e DoubleClick) {
	if s.state.Mode != ModeIdle || s.state.SpaceHeld {
		return
	}
	if _, ok := buttonAt(s.toolbar, e.Pos); ok {
		return
	}
	if _, ok := s.nodeAt(e.Pos); ok {
		return
	}
	at := s.canvas(e.Pos)
	if _, err := s.CreateNode(s.opts.NewNodeTitle, &at); err != nil {
		log.Printf("create node: %v", err)
	}
}

func (s *Surface) wheel(e Wheel) {
	s.view.Wheel(s.opts.Wheel, viewport.Wheel{
		Pos:    e.Pos,
		DeltaX: e.DeltaX,
		DeltaY: e.DeltaY,
		Ctrl:   e.Ctrl,
	}, s.state.SpaceHeld || s.state.Mode == ModePanning)
}

func (s *Surface) keyDown(e KeyDown) {
	if s.menuKey(e.Key) && e.Key != Escape {
		return
	}
	switch e.Key {
	case Space:
		if s.drag.Active() || s.conn.Active() {
			return
		}
		s.state.SpaceHeld = true
	case Escape:
		s.conn.Cancel()
		s.state.Menu = nil
		s.state.SpaceHeld = false
		s.stopPan()
	case Delete:
		if s.state.Selected == "" || s.drag.Active() {
			return
		}
		if err := s.DeleteNode(s.state.Selected); err != nil {
			log.Printf("delete node: %v", err)
		}
	}
}

func (s *Surface) keyUp(e KeyUp) {
	if e.Key != Space {
		return
	}
	s.state.SpaceHeld = false
	s.stopPan()
}

func (s *Surface) contextMenu(e ContextMenu) {
	if s.state.Mode != ModeIdle {
		return
	}
	s.openMenu(e.Pos)
}

func (s *Surface) teardown() {
	s.drag.Abort()
	s.conn.Cancel()
	s.stopPan()
	s.bus.DetachAll()
	s.state = State{Size: s.state.Size, Selected: s.state.Selected}
}

// CreateNode adds a node centred on at, or on the centre of the visible
// canvas when at is nil.
func (s *Surface) CreateNode(title string, at *geom.Point) (graph.Node, error) {
	center := s.canvas(geom.Pt(s.state.Size.Width/2, s.state.Size.Height/2))
	if at != nil {
		center = *at
	}
	size := s.opts.NodeSize
	n, err := s.store.AddNode(graph.Node{
		Title:    title,
		Position: center.Sub(geom.Pt(size.Width/2, size.Height/2)),
		Size:     size,
	})
	if err != nil {
		return graph.Node{}, fmt.Errorf("create node: %w", err)
	}
	s.state.Selected = n.ID
	s.notify()
	return n, nil
}

func (s *Surface) UpdateNode(id string, p graph.Patch) (graph.Node, error) {
	n, err := s.store.UpdateNode(id, p)
	if err != nil {
		return graph.Node{}, err
	}
	s.notify()
	return n, nil
}

func (s *Surface) DuplicateNode(id string) (graph.Node, error) {
	n, err := s.store.DuplicateNode(id, s.opts.DuplicateOffset)
	if err != nil {
		return graph.Node{}, err
	}
	s.state.Selected = n.ID
	s.notify()
	return n, nil
}

// DeleteNode removes a node and every connection touching it. A drag or
// draft holding the node ends first.
func (s *Surface) DeleteNode(id string) error {
	if st, ok := s.drag.State(); ok && st.NodeID == id {
		s.drag.Abort()
	}
	if d, ok := s.conn.Draft(); ok && d.SourceID == id {
		s.conn.Cancel()
	}
	removed, err := s.store.DeleteNode(id)
	if err != nil {
		return err
	}
	for _, c := range removed {
		if c.ID == s.state.HoverConn {
			s.state.HoverConn = ""
		}
	}
	if s.state.Selected == id {
		s.state.Selected = ""
	}
	if s.state.HoverNode == id {
		s.state.HoverNode = ""
	}
	s.notify()
	return nil
}
