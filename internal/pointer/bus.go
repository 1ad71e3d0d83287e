// Package pointer routes global pointer move and release events to the
// controllers that captured the pointer.
//
// A controller attaches a Listener when it enters an active state and must
// detach the returned Handle on every path out of that state. A listener
// that is never detached keeps receiving events and wedges its state
// machine, so Len is exported for tests to check that nothing leaked.
package pointer

import "loom/internal/geom"

type Listener struct {
	Move func(screen geom.Point)
	Up   func(screen geom.Point)
}

type Bus struct {
	next      int
	order     []int
	listeners map[int]Listener
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[int]Listener)}
}

// Handle detaches one listener. Detach is idempotent.
type Handle struct {
	id  int
	bus *Bus
}

func (h Handle) Detach() {
	if h.bus == nil {
		return
	}
	h.bus.remove(h.id)
}

// Attached reports whether the handle still has a live listener.
func (h Handle) Attached() bool {
	if h.bus == nil {
		return false
	}
	_, ok := h.bus.listeners[h.id]
	return ok
}

func (b *Bus) Attach(l Listener) Handle {
	b.next++
	b.listeners[b.next] = l
	b.order = append(b.order, b.next)
	return Handle{id: b.next, bus: b}
}

func (b *Bus) remove(id int) {
	if _, ok := b.listeners[id]; !ok {
		return
	}
	delete(b.listeners, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Len is the number of attached listeners.
func (b *Bus) Len() int {
	return len(b.listeners)
}

// Move delivers a pointer move to every listener in attach order.
func (b *Bus) Move(p geom.Point) {
	for _, l := range b.snapshot() {
		if l.Move != nil {
			l.Move(p)
		}
	}
}

// Up delivers a pointer release. Listeners usually detach themselves from
// inside Up, so delivery iterates over a snapshot.
func (b *Bus) Up(p geom.Point) {
	for _, l := range b.snapshot() {
		if l.Up != nil {
			l.Up(p)
		}
	}
}

// DetachAll drops every listener. Used on teardown.
func (b *Bus) DetachAll() {
	b.order = b.order[:0]
	clear(b.listeners)
}

func (b *Bus) snapshot() []Listener {
	out := make([]Listener, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.listeners[id])
	}
	return out
}
