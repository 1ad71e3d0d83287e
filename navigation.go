package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"loom/internal/geom"
	"loom/internal/surface"
)

// cellPoint maps a terminal cell to the screen point at its centre.
func cellPoint(x, y int) geom.Point {
	return geom.Pt(float64(x)+0.5, float64(y)+0.5)
}

// clickTracker recognises two presses close in time and place as a
// double click.
type clickTracker struct {
	window time.Duration
	now    func() time.Time
	last   time.Time
	pos    geom.Point
}

func newClickTracker(window time.Duration) clickTracker {
	return clickTracker{window: window, now: time.Now}
}

func (c *clickTracker) press(p geom.Point) bool {
	t := c.now()
	if !c.last.IsZero() && t.Sub(c.last) <= c.window && c.pos.Dist(p) <= 1 {
		c.last = time.Time{}
		return true
	}
	c.last, c.pos = t, p
	return false
}

func (m *model) onStatusRow(y int) bool {
	return m.height > 0 && y >= m.height-1
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	ev := tea.MouseEvent(msg)
	p := cellPoint(msg.X, msg.Y)
	if ev.IsWheel() {
		m.wheel(ev, p)
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if m.onStatusRow(msg.Y) {
			return
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.doubleArmed = m.clicks.press(p)
			m.surface.Dispatch(surface.PointerDown{Pos: p, Button: surface.ButtonLeft})
		case tea.MouseButtonMiddle:
			m.surface.Dispatch(surface.PointerDown{Pos: p, Button: surface.ButtonMiddle})
		case tea.MouseButtonRight:
			m.doubleArmed = false
			m.surface.Dispatch(surface.ContextMenu{Pos: p})
		}
	case tea.MouseActionMotion:
		m.surface.Dispatch(surface.PointerMove{Pos: p})
	case tea.MouseActionRelease:
		m.surface.Dispatch(surface.PointerUp{Pos: p, Button: surface.ButtonLeft})
		if m.doubleArmed {
			m.doubleArmed = false
			m.surface.Dispatch(surface.DoubleClick{Pos: p})
		}
	}
}

// wheel turns one wheel notch into a scroll of PanStep cells. Ctrl or
// alt zooms; shift scrolls sideways.
func (m *model) wheel(ev tea.MouseEvent, p geom.Point) {
	step := m.surface.Options().PanStep
	w := surface.Wheel{Pos: p, Ctrl: ev.Ctrl || ev.Alt}
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		w.DeltaY = -step
	case tea.MouseButtonWheelDown:
		w.DeltaY = step
	case tea.MouseButtonWheelLeft:
		w.DeltaX = -step
	case tea.MouseButtonWheelRight:
		w.DeltaX = step
	}
	if ev.Shift && !w.Ctrl && w.DeltaX == 0 {
		w.DeltaX, w.DeltaY = w.DeltaY, 0
	}
	m.surface.Dispatch(w)
}

func (m *model) togglePan() {
	if m.panToggled {
		m.endPan()
		return
	}
	m.surface.Dispatch(surface.KeyDown{Key: surface.Space})
	m.panToggled = m.surface.State().SpaceHeld
}

func (m *model) endPan() {
	if !m.panToggled {
		return
	}
	m.panToggled = false
	m.surface.Dispatch(surface.KeyUp{Key: surface.Space})
}

func (m *model) canvasKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	m.status, m.failed = "", false

	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()
	case key.Matches(msg, k.Cancel):
		m.panToggled = false
		m.surface.Dispatch(surface.KeyDown{Key: surface.Escape})
		return nil
	case key.Matches(msg, k.Pan):
		m.togglePan()
		return nil
	}

	if m.surface.State().Menu != nil {
		switch {
		case key.Matches(msg, k.Up):
			m.surface.Dispatch(surface.KeyDown{Key: surface.ArrowUp})
		case key.Matches(msg, k.Down):
			m.surface.Dispatch(surface.KeyDown{Key: surface.ArrowDown})
		case key.Matches(msg, k.Confirm):
			m.surface.Dispatch(surface.KeyDown{Key: surface.Enter})
		}
		return nil
	}

	switch {
	case key.Matches(msg, k.Delete):
		m.surface.Dispatch(surface.KeyDown{Key: surface.Delete})
	case key.Matches(msg, k.Up):
		m.surface.Exec(surface.PanUp)
	case key.Matches(msg, k.Down):
		m.surface.Exec(surface.PanDown)
	case key.Matches(msg, k.Left):
		m.surface.Exec(surface.PanLeft)
	case key.Matches(msg, k.Right):
		m.surface.Exec(surface.PanRight)
	case key.Matches(msg, k.ZoomIn):
		m.surface.Exec(surface.ZoomIn)
	case key.Matches(msg, k.ZoomOut):
		m.surface.Exec(surface.ZoomOut)
	case key.Matches(msg, k.Reset):
		m.surface.Exec(surface.ResetView)
	case key.Matches(msg, k.Fit):
		m.surface.Exec(surface.FitView)
	case key.Matches(msg, k.New):
		m.openCreate(m.surface.Options().NewNodeTitle, "", nil)
		return m.takePending()
	case key.Matches(msg, k.Paste):
		m.pasteNote()
		return m.takePending()
	case key.Matches(msg, k.Edit):
		if n, ok := m.selected(); ok {
			m.openEditor(n.ID)
			return m.takePending()
		}
		m.setStatus("select a node to edit")
	case key.Matches(msg, k.Copy):
		if n, ok := m.selected(); ok {
			if err := copyText(n.Content); err != nil {
				m.setError(fmt.Errorf("copy: %w", err))
			} else {
				m.setStatus("copied to clipboard")
			}
		}
	case key.Matches(msg, k.Duplicate):
		if n, ok := m.selected(); ok {
			if _, err := m.surface.DuplicateNode(n.ID); err != nil {
				m.setError(fmt.Errorf("duplicate: %w", err))
			}
		}
	case key.Matches(msg, k.Help):
		m.endPan()
		m.mode = modeHelp
	}
	return nil
}

var errClipboardEmpty = errors.New("clipboard is empty")

func (m *model) pasteNote() {
	raw, err := pasteText()
	if err != nil {
		m.setError(fmt.Errorf("paste: %w", err))
		return
	}
	title, content := noteFromClipboard(raw)
	if title == "" {
		m.setError(errClipboardEmpty)
		return
	}
	m.openCreate(title, content, nil)
}

func (m *model) takePending() tea.Cmd {
	cmd := m.pending
	m.pending = nil
	return cmd
}
