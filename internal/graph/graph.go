// Package graph holds the node and connection collections the canvas edits.
package graph

import (
	"errors"
	"slices"

	"loom/internal/geom"
)

var (
	ErrNodeNotFound        = errors.New("node not found")
	ErrConnectionNotFound  = errors.New("connection not found")
	ErrSelfConnection      = errors.New("connection endpoints must differ")
	ErrDuplicateConnection = errors.New("connection already exists")
	ErrInvalidNode         = errors.New("invalid node geometry")
)

type Node struct {
	ID            string
	Title         string
	Content       string
	Tags          []string
	Position      geom.Point
	Size          geom.Size
	Collaborators []string
	Color         string
	Breadcrumb    string
}

func (n Node) Rect() geom.Rect {
	return geom.Rect{Min: n.Position, Size: n.Size}
}

// Anchor is the canvas position of the connection point on the given side.
func (n Node) Anchor(s geom.Side) geom.Point {
	return geom.Anchor(n.Rect(), s)
}

func (n Node) Valid() bool {
	return n.Size.Width > 0 && n.Size.Height > 0 && n.Position.Finite()
}

// Clone returns a copy of n that shares no slices with it.
func (n Node) Clone() Node {
	n.Tags = slices.Clone(n.Tags)
	n.Collaborators = slices.Clone(n.Collaborators)
	return n
}

type Connection struct {
	ID         string
	FromNodeID string
	ToNodeID   string
	FromSide   geom.Side
	ToSide     geom.Side
}

// References reports whether c touches the node id.
func (c Connection) References(id string) bool {
	return c.FromNodeID == id || c.ToNodeID == id
}

func (c Connection) sameRoute(o Connection) bool {
	return c.FromNodeID == o.FromNodeID && c.ToNodeID == o.ToNodeID &&
		c.FromSide == o.FromSide && c.ToSide == o.ToSide
}

// Patch is a partial node update. Nil fields are left unchanged.
type Patch struct {
	Title         *string
	Content       *string
	Tags          *[]string
	Collaborators *[]string
	Color         *string
	Breadcrumb    *string
	Position      *geom.Point
	Size          *geom.Size
}

func (p Patch) apply(n Node) Node {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = slices.Clone(*p.Tags)
	}
	if p.Collaborators != nil {
		n.Collaborators = slices.Clone(*p.Collaborators)
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
	if p.Breadcrumb != nil {
		n.Breadcrumb = *p.Breadcrumb
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
	if p.Size != nil {
		n.Size = *p.Size
	}
	return n
}

// Store owns the node and connection arrays. Implementations keep the
// invariants: no self connections, no connection to a missing node, and
// deleting a node deletes its connections.
type Store interface {
	Nodes() []Node
	Connections() []Connection
	Node(id string) (Node, bool)

	AddNode(n Node) (Node, error)
	UpdateNode(id string, p Patch) (Node, error)
	MoveNode(id string, pos geom.Point) error
	DuplicateNode(id string, offset geom.Point) (Node, error)
	DeleteNode(id string) ([]Connection, error)

	AddConnection(c Connection) (Connection, error)
	DeleteConnection(id string) error
}
