package surface

import "loom/internal/geom"

// Event is anything the surface can dispatch. Positions are screen points.
type Event interface {
	isEvent()
}

type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonMiddle
	ButtonRight
)

type Key string

const (
	Space     Key = "space"
	Escape    Key = "esc"
	Delete    Key = "delete"
	Enter     Key = "enter"
	ArrowUp   Key = "up"
	ArrowDown Key = "down"
)

type PointerDown struct {
	Pos    geom.Point
	Button MouseButton
}

type PointerMove struct {
	Pos geom.Point
}

type PointerUp struct {
	Pos    geom.Point
	Button MouseButton
}

type DoubleClick struct {
	Pos geom.Point
}

type Wheel struct {
	Pos    geom.Point
	DeltaX float64
	DeltaY float64
	Ctrl   bool
}

type KeyDown struct {
	Key Key
}

type KeyUp struct {
	Key Key
}

type ContextMenu struct {
	Pos geom.Point
}

// Resize reports the size of the screen area the canvas occupies.
type Resize struct {
	Size geom.Size
}

// Teardown ends every transient state and detaches every listener.
type Teardown struct{}

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (DoubleClick) isEvent() {}
func (Wheel) isEvent()       {}
func (KeyDown) isEvent()     {}
func (KeyUp) isEvent()       {}
func (ContextMenu) isEvent() {}
func (Resize) isEvent()      {}
func (Teardown) isEvent()    {}
