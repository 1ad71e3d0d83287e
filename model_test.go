package main

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loom/internal/config"
	"loom/internal/geom"
	"loom/internal/graph"
	"loom/internal/surface"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestModel(t *testing.T) (*model, *fakeClock) {
	t.Helper()
	store := graph.NewMemory()
	for _, n := range []graph.Node{
		{ID: "a", Title: "Alpha", Content: "alpha body", Position: geom.Pt(0, 0), Size: geom.Size{Width: 20, Height: 6}},
		{ID: "b", Title: "Beta", Position: geom.Pt(40, 0), Size: geom.Size{Width: 20, Height: 6}},
	} {
		_, err := store.AddNode(n)
		require.NoError(t, err)
	}
	m := newModel(config.Default(), store)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m.clicks.now = clock.now
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 61})
	return m, clock
}

func mouse(m *model, action tea.MouseAction, button tea.MouseButton, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

func keyPress(m *model, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func nodeByID(t *testing.T, m *model, id string) graph.Node {
	t.Helper()
	for _, n := range m.surface.Nodes() {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %s not found", id)
	return graph.Node{}
}

func TestClickTracker(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	c := newClickTracker(400 * time.Millisecond)
	c.now = clock.now

	assert.False(t, c.press(geom.Pt(5, 5)))
	clock.t = clock.t.Add(100 * time.Millisecond)
	assert.True(t, c.press(geom.Pt(5.5, 5)))

	clock.t = clock.t.Add(100 * time.Millisecond)
	assert.False(t, c.press(geom.Pt(5, 5)), "a third press starts over")

	clock.t = clock.t.Add(time.Second)
	assert.False(t, c.press(geom.Pt(5, 5)), "too slow")

	clock.t = clock.t.Add(100 * time.Millisecond)
	assert.False(t, c.press(geom.Pt(9, 5)), "too far")
}

func TestResizeLeavesStatusRow(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, geom.Size{Width: 200, Height: 60}, m.surface.State().Size)
}

func TestFitPendingOnFirstResize(t *testing.T) {
	store := graph.NewMemory()
	_, err := store.AddNode(graph.Node{ID: "a", Title: "A", Position: geom.Pt(500, 500), Size: geom.Size{Width: 20, Height: 6}})
	require.NoError(t, err)
	m := newModel(config.Default(), store)
	m.fitPending = true
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 41})

	assert.False(t, m.fitPending)
	v := m.surface.Viewport()
	center := geom.CanvasToScreen(geom.Pt(510, 503), v)
	assert.InDelta(t, 50, center.X, 1e-6)
	assert.InDelta(t, 20, center.Y, 1e-6)
}

func TestMouseDragMovesNode(t *testing.T) {
	m, _ := newTestModel(t)
	mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 10, 3)
	assert.Equal(t, surface.ModeDragging, m.surface.State().Mode)

	mouse(m, tea.MouseActionMotion, tea.MouseButtonLeft, 15, 4)
	mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, 15, 4)

	assert.Equal(t, geom.Pt(5, 1), nodeByID(t, m, "a").Position)
	assert.Equal(t, surface.ModeIdle, m.surface.State().Mode)
	assert.Equal(t, 0, m.surface.Listeners())
}

func TestStatusRowPressIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 10, 60)
	assert.Equal(t, surface.ModeIdle, m.surface.State().Mode)
	assert.Equal(t, 0, m.surface.Listeners())
}

func TestDoubleClickCreatesNote(t *testing.T) {
	m, clock := newTestModel(t)
	mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 100, 40)
	mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, 100, 40)
	clock.t = clock.t.Add(150 * time.Millisecond)
	mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 100, 40)
	assert.Len(t, m.surface.Nodes(), 2, "created after the second release")
	mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, 100, 40)

	nodes := m.surface.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "New note", nodes[2].Title)
	assert.Equal(t, geom.Pt(100.5, 40.5), nodes[2].Rect().Center())
	assert.Equal(t, nodes[2].ID, m.surface.State().Selected)
}

func TestWheelTranslation(t *testing.T) {
	m, _ := newTestModel(t)

	mouse(m, tea.MouseActionPress, tea.MouseButtonWheelDown, 100, 30)
	assert.Equal(t, geom.Viewport{X: 0, Y: -4, Zoom: 1}, m.surface.Viewport())

	m.Update(tea.MouseMsg{X: 100, Y: 30, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown, Shift: true})
	assert.Equal(t, geom.Viewport{X: -4, Y: -4, Zoom: 1}, m.surface.Viewport())

	m.surface.SetViewport(geom.Identity())
	m.Update(tea.MouseMsg{X: 100, Y: 30, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp, Ctrl: true})
	v := m.surface.Viewport()
	assert.Greater(t, v.Zoom, 1.0)
	anchor := geom.ScreenToCanvas(geom.Pt(100.5, 30.5), v)
	assert.InDelta(t, 100.5, anchor.X, 1e-9, "zoom keeps the point under the cursor")
	assert.InDelta(t, 30.5, anchor.Y, 1e-9)
}

func TestSpaceTogglesPan(t *testing.T) {
	m, _ := newTestModel(t)
	keyPress(m, " ")
	assert.True(t, m.surface.State().SpaceHeld)
	assert.Equal(t, "grab", m.surface.Cursor().String())

	mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 10, 3)
	assert.Equal(t, surface.ModePanning, m.surface.State().Mode)
	mouse(m, tea.MouseActionMotion, tea.MouseButtonLeft, 20, 8)
	mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, 20, 8)

	assert.Equal(t, geom.Pt(0, 0), nodeByID(t, m, "a").Position, "panning never drags")
	assert.Equal(t, geom.Viewport{X: 10, Y: 5, Zoom: 1}, m.surface.Viewport())

	keyPress(m, " ")
	assert.False(t, m.surface.State().SpaceHeld)
	assert.False(t, m.panToggled)
}

func TestEscapeClearsPanToggle(t *testing.T) {
	m, _ := newTestModel(t)
	keyPress(m, " ")
	keyPress(m, "esc")
	assert.False(t, m.panToggled)
	assert.False(t, m.surface.State().SpaceHeld)
}

func TestViewportKeys(t *testing.T) {
	m, _ := newTestModel(t)
	keyPress(m, "+")
	assert.InDelta(t, 1.25, m.surface.Viewport().Zoom, 1e-9)
	keyPress(m, "0")
	assert.Equal(t, geom.Identity(), m.surface.Viewport())
	keyPress(m, "l")
	assert.Equal(t, geom.Viewport{X: -4, Y: 0, Zoom: 1}, m.surface.Viewport())
	keyPress(m, "k")
	assert.Equal(t, geom.Viewport{X: -4, Y: 4, Zoom: 1}, m.surface.Viewport())
}

func TestCreateDialog(t *testing.T) {
	m, _ := newTestModel(t)
	keyPress(m, "n")
	require.Equal(t, modeCreate, m.mode)
	require.NotNil(t, m.dialog)

	m.dialog.fields[0].input.SetValue("Idea")
	keyPress(m, "tab")
	keyPress(m, "x")
	keyPress(m, `\`)
	keyPress(m, "n")
	keyPress(m, "y")
	keyPress(m, "enter")

	assert.Equal(t, modeCanvas, m.mode)
	nodes := m.surface.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "Idea", nodes[2].Title)
	assert.Equal(t, "x\ny", nodes[2].Content)
	assert.Equal(t, geom.Pt(100, 30), nodes[2].Rect().Center())
}

func TestCreateDialogRejectsEmptyTitle(t *testing.T) {
	m, _ := newTestModel(t)
	keyPress(m, "n")
	m.dialog.fields[0].input.SetValue("  ")
	keyPress(m, "enter")
	assert.Equal(t, modeCreate, m.mode)
	assert.True(t, m.failed)

	keyPress(m, "esc")
	assert.Equal(t, modeCanvas, m.mode)
	assert.Len(t, m.surface.Nodes(), 2)
}

func TestEditDialog(t *testing.T) {
	m, _ := newTestModel(t)
	mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 10, 3)
	mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, 10, 3)
	keyPress(m, "e")
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "a", m.dialog.nodeID)

	v, _ := m.dialog.value(fieldContent)
	assert.Equal(t, "alpha body", v)
	for i, f := range m.dialog.fields {
		switch f.kind {
		case fieldTags:
			m.dialog.fields[i].input.SetValue("x, y,")
		case fieldColor:
			m.dialog.fields[i].input.SetValue("#ff8800")
		}
	}
	keyPress(m, "enter")

	a := nodeByID(t, m, "a")
	assert.Equal(t, "Alpha", a.Title)
	assert.Equal(t, []string{"x", "y"}, a.Tags)
	assert.Equal(t, "#ff8800", a.Color)
	assert.Empty(t, a.Collaborators)
}

func TestDialogPatchOnlyShownFields(t *testing.T) {
	d := newCreateDialog("T", "one\ntwo", nil)
	p := d.patch()
	require.NotNil(t, p.Title)
	require.NotNil(t, p.Content)
	assert.Equal(t, "one\ntwo", *p.Content)
	assert.Nil(t, p.Tags)
	assert.Nil(t, p.Color)
	assert.Nil(t, p.Breadcrumb)
}

func TestContextMenuOpensEditor(t *testing.T) {
	m, _ := newTestModel(t)
	mouse(m, tea.MouseActionPress, tea.MouseButtonRight, 50, 3)
	require.NotNil(t, m.surface.State().Menu)

	keyPress(m, "enter")
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "b", m.dialog.nodeID)
	assert.Nil(t, m.surface.State().Menu)
}

func TestMenuKeysNavigate(t *testing.T) {
	m, _ := newTestModel(t)
	mouse(m, tea.MouseActionPress, tea.MouseButtonRight, 50, 3)
	keyPress(m, "j")
	assert.Equal(t, 1, m.surface.State().Menu.Selected)
	assert.Equal(t, geom.Identity(), m.surface.Viewport(), "arrows drive the menu, not the view")

	keyPress(m, "enter")
	assert.Len(t, m.surface.Nodes(), 3, "second item duplicates")
}

func TestCopyAndPaste(t *testing.T) {
	var copied string
	copyText = func(s string) error { copied = s; return nil }
	pasteText = func() (string, error) { return "<p>Hello</p><p>World &amp; more</p>", nil }
	t.Cleanup(func() { copyText, pasteText = writeClipboardText, readClipboardText })

	m, _ := newTestModel(t)
	mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 10, 3)
	mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, 10, 3)
	keyPress(m, "c")
	assert.Equal(t, "alpha body", copied)
	assert.Equal(t, "copied to clipboard", m.status)

	keyPress(m, "p")
	require.Equal(t, modeCreate, m.mode)
	title, _ := m.dialog.value(fieldTitle)
	content, _ := m.dialog.value(fieldContent)
	assert.Equal(t, "Hello", title)
	assert.Equal(t, "World & more", content)
}

func TestCopyFailureShowsError(t *testing.T) {
	copyText = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { copyText = writeClipboardText })

	m, _ := newTestModel(t)
	mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 10, 3)
	mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, 10, 3)
	keyPress(m, "c")
	assert.True(t, m.failed)
	assert.Contains(t, m.status, "no clipboard")
}

func TestPasteEmptyClipboard(t *testing.T) {
	pasteText = func() (string, error) { return "  \n ", nil }
	t.Cleanup(func() { pasteText = readClipboardText })

	m, _ := newTestModel(t)
	keyPress(m, "p")
	assert.Equal(t, modeCanvas, m.mode)
	assert.Equal(t, errClipboardEmpty.Error(), m.status)
}

func TestDuplicateAndDeleteKeys(t *testing.T) {
	m, _ := newTestModel(t)
	mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 50, 3)
	mouse(m, tea.MouseActionRelease, tea.MouseButtonNone, 50, 3)
	keyPress(m, "d")
	nodes := m.surface.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, geom.Pt(44, 2), nodes[2].Position)

	keyPress(m, "x")
	assert.Len(t, m.surface.Nodes(), 2)
}

func TestQuitTearsDown(t *testing.T) {
	m, _ := newTestModel(t)
	mouse(m, tea.MouseActionPress, tea.MouseButtonLeft, 10, 3)
	require.Equal(t, 1, m.surface.Listeners())

	cmd := keyPress(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 0, m.surface.Listeners())
	assert.Equal(t, surface.ModeIdle, m.surface.State().Mode)
}

func TestHelpMode(t *testing.T) {
	m, _ := newTestModel(t)
	keyPress(m, "?")
	assert.Equal(t, modeHelp, m.mode)
	assert.Contains(t, m.View(), "zoom at the pointer")
	keyPress(m, "q")
	assert.Equal(t, modeCanvas, m.mode, "any key leaves help")
}

func TestConfigReload(t *testing.T) {
	m, _ := newTestModel(t)
	cfg := config.Default()
	cfg.Wheel.PanStep = 10
	cfg.Input.DoubleClickMS = 150
	m.Update(configMsg{cfg: cfg})

	assert.Equal(t, 10.0, m.surface.Options().PanStep)
	assert.Equal(t, 150*time.Millisecond, m.clicks.window)
	assert.Equal(t, "config reloaded", m.status)

	m.Update(configMsg{cfg: config.Default(), err: errors.New("bad toml")})
	assert.True(t, m.failed)
	assert.Equal(t, 10.0, m.surface.Options().PanStep, "a broken file keeps the last good config")
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t)
	m.boardName = "/tmp/plan.yaml"
	out := m.View()
	assert.Contains(t, out, "[fit]")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "IDLE")
	assert.Contains(t, out, "2 nodes 0 edges")
	assert.Contains(t, out, "plan.yaml")
}

func TestSurfaceOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Canvas.NodeWidth = 30
	cfg.Wheel.ZoomThreshold = 12
	cfg.Input.AnchorRadius = 2
	opts := surfaceOptions(cfg)
	assert.Equal(t, geom.Size{Width: 30, Height: 7}, opts.NodeSize)
	assert.Equal(t, 12.0, opts.Wheel.ZoomThreshold)
	assert.Equal(t, 2.0, opts.AnchorRadius)
	assert.Equal(t, 1.25, opts.ZoomStep)
}
