package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/geom"
	"loom/internal/graph"
)

// newSurface lays out A at (0,0) and B at (40,0), both 20x6, on a 200x60
// screen with the identity viewport.
func newSurface(t *testing.T, collab Collaborators) (*Surface, *graph.Memory) {
	t.Helper()
	store := graph.NewMemory()
	for _, n := range []graph.Node{
		{ID: "A", Title: "A", Content: "alpha", Position: geom.Pt(0, 0), Size: geom.Size{Width: 20, Height: 6}},
		{ID: "B", Title: "B", Position: geom.Pt(40, 0), Size: geom.Size{Width: 20, Height: 6}},
	} {
		_, err := store.AddNode(n)
		require.NoError(t, err)
	}
	s := New(store, DefaultOptions(), collab)
	s.Dispatch(Resize{Size: geom.Size{Width: 200, Height: 60}})
	return s, store
}

func press(s *Surface, x, y float64) {
	s.Dispatch(PointerDown{Pos: geom.Pt(x, y), Button: ButtonLeft})
}

func move(s *Surface, x, y float64) {
	s.Dispatch(PointerMove{Pos: geom.Pt(x, y)})
}

func release(s *Surface, x, y float64) {
	s.Dispatch(PointerUp{Pos: geom.Pt(x, y), Button: ButtonLeft})
}

func TestConnectAToB(t *testing.T) {
	s, store := newSurface(t, Collaborators{})

	press(s, 19.5, 3)
	assert.Equal(t, ModeConnecting, s.State().Mode, "anchor handles sit above the node body")
	assert.Equal(t, CursorCrosshair, s.Cursor())
	assert.Equal(t, 1, s.Listeners())

	move(s, 30, 10)
	snap := s.Snapshot()
	require.NotNil(t, snap.Draft)
	assert.Equal(t, geom.Pt(20, 3), snap.Draft.Anchor)
	assert.Nil(t, snap.Draft.Target)

	move(s, 40.5, 3.5)
	release(s, 40.5, 3.5)

	conns := store.Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, "A", conns[0].FromNodeID)
	assert.Equal(t, "B", conns[0].ToNodeID)
	assert.Equal(t, geom.Right, conns[0].FromSide)
	assert.Equal(t, geom.Left, conns[0].ToSide)
	assert.Equal(t, ModeIdle, s.State().Mode)
	assert.Equal(t, 0, s.Listeners())

	pos, _ := store.Node("A")
	assert.Equal(t, geom.Pt(0, 0), pos.Position, "connecting never moves the source")
}

func TestDragNodeBody(t *testing.T) {
	s, store := newSurface(t, Collaborators{})

	press(s, 10, 3)
	assert.Equal(t, ModeDragging, s.State().Mode)
	assert.Equal(t, "A", s.State().Selected)
	assert.Equal(t, "A", s.Snapshot().Dragging)

	move(s, 15, 4)
	n, _ := store.Node("A")
	assert.Equal(t, geom.Pt(5, 1), n.Position)

	release(s, 16, 4)
	n, _ = store.Node("A")
	assert.Equal(t, geom.Pt(6, 1), n.Position)
	assert.Equal(t, ModeIdle, s.State().Mode)
	assert.Equal(t, 0, s.Listeners())
}

func TestOnlyLeftReleaseEndsDrag(t *testing.T) {
	s, store := newSurface(t, Collaborators{})

	press(s, 10, 3)
	move(s, 15, 4)
	for _, b := range []MouseButton{ButtonRight, ButtonMiddle} {
		s.Dispatch(PointerUp{Pos: geom.Pt(30, 20), Button: b})
		assert.Equal(t, ModeDragging, s.State().Mode)
		assert.Equal(t, 1, s.Listeners())
	}
	n, _ := store.Node("A")
	assert.Equal(t, geom.Pt(5, 1), n.Position)

	release(s, 16, 4)
	assert.Equal(t, ModeIdle, s.State().Mode)
	assert.Equal(t, 0, s.Listeners())
}

func TestEmptyPressClearsSelection(t *testing.T) {
	s, _ := newSurface(t, Collaborators{})
	press(s, 10, 3)
	release(s, 10, 3)
	require.Equal(t, "A", s.State().Selected)

	press(s, 100, 40)
	assert.Equal(t, "", s.State().Selected)
	assert.Equal(t, ModeIdle, s.State().Mode)
	assert.Equal(t, 0, s.Listeners())
}

func TestSpacePanNeverDrags(t *testing.T) {
	s, store := newSurface(t, Collaborators{})

	s.Dispatch(KeyDown{Key: Space})
	assert.Equal(t, CursorGrab, s.Cursor())

	press(s, 10, 3)
	assert.Equal(t, ModePanning, s.State().Mode)
	assert.Equal(t, CursorGrabbing, s.Cursor())

	move(s, 12, 5)
	assert.Equal(t, geom.Viewport{X: 2, Y: 2, Zoom: 1}, s.Viewport())
	release(s, 13, 5)
	assert.Equal(t, geom.Viewport{X: 3, Y: 2, Zoom: 1}, s.Viewport())

	n, _ := store.Node("A")
	assert.Equal(t, geom.Pt(0, 0), n.Position)
	assert.Equal(t, ModeIdle, s.State().Mode)
	assert.Equal(t, 0, s.Listeners())

	s.Dispatch(KeyUp{Key: Space})
	assert.Equal(t, CursorDefault, s.Cursor())
}

func TestSpaceIgnoredWhileDragging(t *testing.T) {
	s, _ := newSurface(t, Collaborators{})
	press(s, 10, 3)
	s.Dispatch(KeyDown{Key: Space})
	assert.False(t, s.State().SpaceHeld)
	release(s, 10, 3)
}

func TestWheel(t *testing.T) {
	t.Run("pans", func(t *testing.T) {
		s, _ := newSurface(t, Collaborators{})
		s.Dispatch(Wheel{Pos: geom.Pt(50, 20), DeltaY: 3})
		assert.Equal(t, geom.Viewport{X: 0, Y: -3, Zoom: 1}, s.Viewport())
	})
	t.Run("ctrl zooms at cursor", func(t *testing.T) {
		s, _ := newSurface(t, Collaborators{})
		at := geom.Pt(50, 20)
		before := geom.ScreenToCanvas(at, s.Viewport())
		s.Dispatch(Wheel{Pos: at, DeltaY: -1, Ctrl: true})
		assert.InDelta(t, 1.1, s.Viewport().Zoom, 1e-9)
		after := geom.ScreenToCanvas(at, s.Viewport())
		assert.InDelta(t, before.X, after.X, 1e-9)
		assert.InDelta(t, before.Y, after.Y, 1e-9)
	})
	t.Run("suppressed while space held", func(t *testing.T) {
		s, _ := newSurface(t, Collaborators{})
		s.Dispatch(KeyDown{Key: Space})
		s.Dispatch(Wheel{Pos: geom.Pt(50, 20), DeltaY: 3})
		assert.Equal(t, geom.Identity(), s.Viewport())
	})
}

func TestEscapeCancelsDraft(t *testing.T) {
	s, store := newSurface(t, Collaborators{})
	press(s, 19.5, 3)
	move(s, 40.5, 3.5)
	s.Dispatch(KeyDown{Key: Escape})

	assert.Equal(t, ModeIdle, s.State().Mode)
	assert.Nil(t, s.Snapshot().Draft)
	assert.Equal(t, 0, s.Listeners())

	release(s, 40.5, 3.5)
	assert.Empty(t, store.Connections())
}

func TestTeardownDetachesEverything(t *testing.T) {
	for name, start := range map[string]func(*Surface){
		"drag":    func(s *Surface) { press(s, 10, 3) },
		"connect": func(s *Surface) { press(s, 19.5, 3) },
		"pan": func(s *Surface) {
			s.Dispatch(KeyDown{Key: Space})
			press(s, 100, 40)
		},
	} {
		t.Run(name, func(t *testing.T) {
			s, _ := newSurface(t, Collaborators{})
			start(s)
			require.Equal(t, 1, s.Listeners())

			s.Dispatch(Teardown{})
			assert.Equal(t, 0, s.Listeners())
			assert.Equal(t, ModeIdle, s.State().Mode)
			assert.False(t, s.State().SpaceHeld)
			assert.Nil(t, s.Snapshot().Draft)
		})
	}
}

func TestDoubleClickCreatesCenteredNode(t *testing.T) {
	s, store := newSurface(t, Collaborators{})
	s.Dispatch(DoubleClick{Pos: geom.Pt(100, 50)})

	nodes := store.Nodes()
	require.Len(t, nodes, 3)
	n := nodes[2]
	assert.Equal(t, geom.Pt(88, 46.5), n.Position)
	assert.Equal(t, geom.Pt(100, 50), n.Rect().Center())
	assert.Equal(t, n.ID, s.State().Selected)

	s.Dispatch(DoubleClick{Pos: geom.Pt(10, 3)})
	assert.Len(t, store.Nodes(), 3, "double-click on a node does not create")
}

func TestContextMenu(t *testing.T) {
	var copied, opened string
	s, store := newSurface(t, Collaborators{
		Open: func(id string) { opened = id },
		Copy: func(text string) error { copied = text; return nil },
	})

	open := func(x, y float64) *Menu {
		s.Dispatch(ContextMenu{Pos: geom.Pt(x, y)})
		m := s.Snapshot().Menu
		require.NotNil(t, m)
		return m
	}
	item := func(m *Menu, a Action) {
		r := m.Rect(s.State().Size)
		for i, it := range m.Items {
			if it == a {
				press(s, r.Min.X+2, r.Min.Y+1+float64(i)+0.5)
				return
			}
		}
		t.Fatalf("no %s item", a.Label())
	}

	m := open(10, 3)
	assert.Equal(t, []Action{ActionOpen, ActionDuplicate, ActionCopy, ActionDelete}, m.Items)
	item(m, ActionOpen)
	assert.Equal(t, "A", opened)
	assert.Nil(t, s.Snapshot().Menu)

	item(open(10, 3), ActionCopy)
	assert.Equal(t, "alpha", copied)

	m = open(100, 40)
	assert.Equal(t, []Action{ActionCreateNote}, m.Items)
	item(m, ActionCreateNote)
	require.Len(t, store.Nodes(), 3)
	assert.Equal(t, geom.Pt(100, 40), store.Nodes()[2].Rect().Center())

	item(open(50, 3), ActionDuplicate)
	require.Len(t, store.Nodes(), 4)
	assert.Equal(t, geom.Pt(44, 2), store.Nodes()[3].Position)

	_, err := store.AddConnection(graph.Connection{FromNodeID: "A", ToNodeID: "B", FromSide: geom.Right, ToSide: geom.Left})
	require.NoError(t, err)
	item(open(10, 3), ActionDelete)
	_, ok := store.Node("A")
	assert.False(t, ok)
	assert.Empty(t, store.Connections())
}

func TestMenuClosesOnOutsideClick(t *testing.T) {
	s, store := newSurface(t, Collaborators{})
	s.Dispatch(ContextMenu{Pos: geom.Pt(100, 40)})
	require.NotNil(t, s.Snapshot().Menu)

	press(s, 150, 10)
	assert.Nil(t, s.Snapshot().Menu)
	assert.Len(t, store.Nodes(), 2)
}

func TestMenuKeyboard(t *testing.T) {
	var opened string
	s, _ := newSurface(t, Collaborators{Open: func(id string) { opened = id }})
	s.Dispatch(ContextMenu{Pos: geom.Pt(10, 3)})
	s.Dispatch(KeyDown{Key: ArrowDown})
	s.Dispatch(KeyDown{Key: ArrowUp})
	s.Dispatch(KeyDown{Key: Enter})
	assert.Equal(t, "A", opened)

	s.Dispatch(ContextMenu{Pos: geom.Pt(10, 3)})
	s.Dispatch(KeyDown{Key: Escape})
	assert.Nil(t, s.Snapshot().Menu)
}

func TestToolbar(t *testing.T) {
	s, _ := newSurface(t, Collaborators{})
	buttons := s.Snapshot().Toolbar
	require.Len(t, buttons, 4)
	at := func(c Command) geom.Point {
		for _, b := range buttons {
			if b.Command == c {
				return b.Rect.Center()
			}
		}
		t.Fatalf("no button for %d", c)
		return geom.Point{}
	}

	p := at(ZoomIn)
	press(s, p.X, p.Y)
	assert.InDelta(t, 1.25, s.Viewport().Zoom, 1e-9)
	assert.Equal(t, ModeIdle, s.State().Mode, "toolbar clicks never reach the node underneath")

	p = at(ResetView)
	press(s, p.X, p.Y)
	assert.Equal(t, geom.Identity(), s.Viewport())

	p = at(FitView)
	press(s, p.X, p.Y)
	v := s.Viewport()
	assert.LessOrEqual(t, v.Zoom, 1.0)
	bounds, _ := graph.Bounds(s.Nodes())
	r := geom.RectToScreen(bounds, v)
	assert.InDelta(t, 100, r.Center().X, 1e-9)
	assert.InDelta(t, 30, r.Center().Y, 1e-9)
}

func TestMidpointDeletesHoveredConnection(t *testing.T) {
	s, store := newSurface(t, Collaborators{})
	_, err := store.AddConnection(graph.Connection{FromNodeID: "A", ToNodeID: "B", FromSide: geom.Right, ToSide: geom.Left})
	require.NoError(t, err)
	id := store.Connections()[0].ID

	move(s, 30.2, 3.2)
	assert.Equal(t, id, s.State().HoverConn)

	move(s, 30.2, 20)
	assert.Empty(t, s.State().HoverConn)

	move(s, 30.2, 3.2)
	press(s, 30.2, 3.2)
	assert.Empty(t, store.Connections())
	assert.Empty(t, s.State().HoverConn)
	assert.Equal(t, ModeIdle, s.State().Mode)
}

func TestDeleteKeyRemovesSelected(t *testing.T) {
	s, store := newSurface(t, Collaborators{})
	press(s, 50, 3)
	release(s, 50, 3)
	require.Equal(t, "B", s.State().Selected)

	s.Dispatch(KeyDown{Key: Delete})
	_, ok := store.Node("B")
	assert.False(t, ok)
	assert.Empty(t, s.State().Selected)
}

func TestSubscribe(t *testing.T) {
	s, _ := newSurface(t, Collaborators{})
	var got []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.Dispatch(Wheel{Pos: geom.Pt(0, 0), DeltaX: -2})
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Viewport.X)
	assert.Len(t, got[0].Nodes, 2)

	unsubscribe()
	s.Dispatch(Wheel{Pos: geom.Pt(0, 0), DeltaX: -2})
	assert.Len(t, got, 1)
}

func TestCreateNodeDefaultsToScreenCenter(t *testing.T) {
	s, _ := newSurface(t, Collaborators{})
	s.SetViewport(geom.Viewport{X: -10, Y: 0, Zoom: 2})
	n, err := s.CreateNode("quick", nil)
	require.NoError(t, err)
	assert.Equal(t, geom.Pt(55, 15), n.Rect().Center())
	assert.Equal(t, "quick", n.Title)

	_, err = s.UpdateNode("ghost", graph.Patch{})
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}
