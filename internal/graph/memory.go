package graph

import (
	"fmt"

	"github.com/google/uuid"

	"loom/internal/geom"
)

// Memory is the in-process Store. Node order is paint order: later nodes
// are drawn on top and win hit tests.
type Memory struct {
	nodes       []Node
	connections []Connection
	newID       func() string
}

type Option func(*Memory)

// WithIDGenerator replaces the uuid generator used for new ids.
func WithIDGenerator(gen func() string) Option {
	return func(m *Memory) {
		m.newID = gen
	}
}

func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		nodes:       make([]Node, 0),
		connections: make([]Connection, 0),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Nodes() []Node {
	out := make([]Node, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n.Clone()
	}
	return out
}

func (m *Memory) Connections() []Connection {
	out := make([]Connection, len(m.connections))
	copy(out, m.connections)
	return out
}

func (m *Memory) Node(id string) (Node, bool) {
	i := m.indexOf(id)
	if i < 0 {
		return Node{}, false
	}
	return m.nodes[i].Clone(), true
}

func (m *Memory) indexOf(id string) int {
	for i := range m.nodes {
		if m.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) connIndex(id string) int {
	for i := range m.connections {
		if m.connections[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) AddNode(n Node) (Node, error) {
	if !n.Valid() {
		return Node{}, fmt.Errorf("add node %q: %w", n.Title, ErrInvalidNode)
	}
	if n.ID == "" {
		n.ID = m.newID()
	} else if m.indexOf(n.ID) >= 0 {
		return Node{}, fmt.Errorf("add node %s: id already in use", n.ID)
	}
	n = n.Clone()
	m.nodes = append(m.nodes, n)
	return n.Clone(), nil
}

func (m *Memory) UpdateNode(id string, p Patch) (Node, error) {
	i := m.indexOf(id)
	if i < 0 {
		return Node{}, fmt.Errorf("update node %s: %w", id, ErrNodeNotFound)
	}
	updated := p.apply(m.nodes[i].Clone())
	if !updated.Valid() {
		return Node{}, fmt.Errorf("update node %s: %w", id, ErrInvalidNode)
	}
	m.nodes[i] = updated
	return updated.Clone(), nil
}

func (m *Memory) MoveNode(id string, pos geom.Point) error {
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("move node %s: %w", id, ErrNodeNotFound)
	}
	if !pos.Finite() {
		return fmt.Errorf("move node %s: %w", id, ErrInvalidNode)
	}
	m.nodes[i].Position = pos
	return nil
}

func (m *Memory) DuplicateNode(id string, offset geom.Point) (Node, error) {
	i := m.indexOf(id)
	if i < 0 {
		return Node{}, fmt.Errorf("duplicate node %s: %w", id, ErrNodeNotFound)
	}
	dup := m.nodes[i].Clone()
	dup.ID = m.newID()
	dup.Position = dup.Position.Add(offset)
	m.nodes = append(m.nodes, dup)
	return dup.Clone(), nil
}

// DeleteNode removes the node and every connection referencing it. The
// removed connections are returned.
func (m *Memory) DeleteNode(id string) ([]Connection, error) {
	i := m.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("delete node %s: %w", id, ErrNodeNotFound)
	}
	m.nodes = append(m.nodes[:i], m.nodes[i+1:]...)

	var removed []Connection
	kept := m.connections[:0]
	for _, c := range m.connections {
		if c.References(id) {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	m.connections = kept
	return removed, nil
}

func (m *Memory) AddConnection(c Connection) (Connection, error) {
	if c.FromNodeID == c.ToNodeID {
		return Connection{}, fmt.Errorf("add connection %s: %w", c.FromNodeID, ErrSelfConnection)
	}
	if !c.FromSide.Valid() || !c.ToSide.Valid() {
		return Connection{}, fmt.Errorf("add connection %s->%s: invalid side", c.FromNodeID, c.ToNodeID)
	}
	for _, id := range []string{c.FromNodeID, c.ToNodeID} {
		if m.indexOf(id) < 0 {
			return Connection{}, fmt.Errorf("add connection endpoint %s: %w", id, ErrNodeNotFound)
		}
	}
	for _, existing := range m.connections {
		if existing.sameRoute(c) {
			return Connection{}, fmt.Errorf("add connection %s->%s: %w", c.FromNodeID, c.ToNodeID, ErrDuplicateConnection)
		}
	}
	if c.ID == "" {
		c.ID = m.newID()
	} else if m.connIndex(c.ID) >= 0 {
		return Connection{}, fmt.Errorf("add connection %s: id already in use", c.ID)
	}
	m.connections = append(m.connections, c)
	return c, nil
}

func (m *Memory) DeleteConnection(id string) error {
	i := m.connIndex(id)
	if i < 0 {
		return fmt.Errorf("delete connection %s: %w", id, ErrConnectionNotFound)
	}
	m.connections = append(m.connections[:i], m.connections[i+1:]...)
	return nil
}
