package surface

import (
	"log"
	"unicode/utf8"

	"loom/internal/geom"
)

type Action int

const (
	ActionOpen Action = iota
	ActionDuplicate
	ActionCopy
	ActionDelete
	ActionCreateNote
)

func (a Action) Label() string {
	switch a {
	case ActionOpen:
		return "Open"
	case ActionDuplicate:
		return "Duplicate"
	case ActionCopy:
		return "Copy content"
	case ActionDelete:
		return "Delete"
	default:
		return "Create note"
	}
}

// Menu is an open context menu. NodeID is empty when it was opened over
// empty canvas.
type Menu struct {
	Pos      geom.Point
	Canvas   geom.Point
	NodeID   string
	Items    []Action
	Selected int
}

func nodeMenu(pos, canvas geom.Point, id string) *Menu {
	return &Menu{
		Pos:    pos,
		Canvas: canvas,
		NodeID: id,
		Items:  []Action{ActionOpen, ActionDuplicate, ActionCopy, ActionDelete},
	}
}

func canvasMenu(pos, canvas geom.Point) *Menu {
	return &Menu{Pos: pos, Canvas: canvas, Items: []Action{ActionCreateNote}}
}

// Rect is the screen rectangle of the menu box including its border,
// shifted so it stays inside a screen of the given size.
func (m Menu) Rect(screen geom.Size) geom.Rect {
	w := 0
	for _, a := range m.Items {
		if n := utf8.RuneCountInString(a.Label()); n > w {
			w = n
		}
	}
	size := geom.Size{Width: float64(w + 4), Height: float64(len(m.Items) + 2)}
	x, y := float64(int(m.Pos.X)), float64(int(m.Pos.Y))
	if screen.Width > 0 && x+size.Width > screen.Width {
		x = max(0, screen.Width-size.Width)
	}
	if screen.Height > 0 && y+size.Height > screen.Height {
		y = max(0, screen.Height-size.Height)
	}
	return geom.Rect{Min: geom.Pt(x, y), Size: size}
}

// ItemAt returns the index of the item row under p.
func (m Menu) ItemAt(p geom.Point, screen geom.Size) (int, bool) {
	r := m.Rect(screen)
	if !r.Contains(p) {
		return 0, false
	}
	row := int(p.Y-r.Min.Y) - 1
	if row < 0 || row >= len(m.Items) {
		return 0, false
	}
	return row, true
}

func (s *Surface) openMenu(pos geom.Point) {
	canvas := geom.ScreenToCanvas(pos, s.view.Viewport())
	if n, ok := s.nodeAt(pos); ok {
		s.state.Menu = nodeMenu(pos, canvas, n.ID)
		s.state.Selected = n.ID
		return
	}
	s.state.Menu = canvasMenu(pos, canvas)
}

// activate runs a menu action and closes the menu.
func (s *Surface) activate(m *Menu, a Action) {
	s.state.Menu = nil
	switch a {
	case ActionOpen:
		if s.collab.Open != nil {
			s.collab.Open(m.NodeID)
		}
	case ActionDuplicate:
		if _, err := s.DuplicateNode(m.NodeID); err != nil {
			log.Printf("menu duplicate: %v", err)
		}
	case ActionCopy:
		n, ok := s.store.Node(m.NodeID)
		if !ok || s.collab.Copy == nil {
			return
		}
		if err := s.collab.Copy(n.Content); err != nil {
			log.Printf("menu copy: %v", err)
		}
	case ActionDelete:
		if err := s.DeleteNode(m.NodeID); err != nil {
			log.Printf("menu delete: %v", err)
		}
	case ActionCreateNote:
		at := m.Canvas
		if _, err := s.CreateNode(s.opts.NewNodeTitle, &at); err != nil {
			log.Printf("menu create: %v", err)
		}
	}
}

func (s *Surface) menuKey(k Key) bool {
	m := s.state.Menu
	if m == nil {
		return false
	}
	switch k {
	case ArrowUp:
		m.Selected = (m.Selected + len(m.Items) - 1) % len(m.Items)
	case ArrowDown:
		m.Selected = (m.Selected + 1) % len(m.Items)
	case Enter:
		s.activate(m, m.Items[m.Selected])
	case Escape:
		s.state.Menu = nil
	default:
		return false
	}
	return true
}
