package surface

import (
	"unicode/utf8"

	"loom/internal/geom"
)

// Command is a viewport command issued by the toolbar or the keyboard.
type Command int

const (
	ZoomIn Command = iota
	ZoomOut
	ResetView
	FitView
	PanLeft
	PanRight
	PanUp
	PanDown
)

// Button is one toolbar button laid out in screen space.
type Button struct {
	Label   string
	Command Command
	Rect    geom.Rect
}

var toolbarButtons = []struct {
	label string
	cmd   Command
}{
	{"[+]", ZoomIn},
	{"[-]", ZoomOut},
	{"[1:1]", ResetView},
	{"[fit]", FitView},
}

// Toolbar lays the buttons out left to right on the first screen row.
func Toolbar() []Button {
	out := make([]Button, 0, len(toolbarButtons))
	x := 1.0
	for _, b := range toolbarButtons {
		w := float64(utf8.RuneCountInString(b.label))
		out = append(out, Button{
			Label:   b.label,
			Command: b.cmd,
			Rect:    geom.Rect{Min: geom.Pt(x, 0), Size: geom.Size{Width: w, Height: 1}},
		})
		x += w + 1
	}
	return out
}

func buttonAt(buttons []Button, p geom.Point) (Button, bool) {
	for _, b := range buttons {
		if b.Rect.Contains(p) {
			return b, true
		}
	}
	return Button{}, false
}

// Exec runs a viewport command.
func (s *Surface) Exec(cmd Command) {
	center := geom.Pt(s.state.Size.Width/2, s.state.Size.Height/2)
	step := s.opts.ZoomStep
	switch cmd {
	case ZoomIn:
		s.view.ZoomAt(center, step)
	case ZoomOut:
		s.view.ZoomAt(center, 1/step)
	case ResetView:
		s.view.Reset()
	case FitView:
		s.view.FitToScreen(s.store.Nodes(), s.state.Size)
	case PanLeft:
		s.view.Pan(s.opts.PanStep, 0)
	case PanRight:
		s.view.Pan(-s.opts.PanStep, 0)
	case PanUp:
		s.view.Pan(0, s.opts.PanStep)
	case PanDown:
		s.view.Pan(0, -s.opts.PanStep)
	}
	s.notify()
}
