package geom

import (
	"fmt"
	"strings"
)

// Side names one of the four anchors on a node's boundary.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

var sideNames = [...]string{
	Top:    "top",
	Bottom: "bottom",
	Left:   "left",
	Right:  "right",
}

// Sides lists every side in declaration order.
func Sides() []Side {
	return []Side{Top, Bottom, Left, Right}
}

func (s Side) Valid() bool {
	return s >= Top && s <= Right
}

func (s Side) String() string {
	if !s.Valid() {
		return fmt.Sprintf("side(%d)", int(s))
	}
	return sideNames[s]
}

func ParseSide(name string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "top":
		return Top, nil
	case "bottom":
		return Bottom, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown side %q", name)
}

func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid side %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Opposite returns the side facing s.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	default:
		return Left
	}
}

// Normal is the outward unit normal of a side. Screen and canvas y grow
// downwards, so Top points to negative y.
func Normal(s Side) Point {
	switch s {
	case Top:
		return Point{X: 0, Y: -1}
	case Bottom:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	default:
		return Point{X: 1, Y: 0}
	}
}

// Anchor is the midpoint of the given side of r.
func Anchor(r Rect, s Side) Point {
	c := r.Center()
	max := r.Max()
	switch s {
	case Top:
		return Point{X: c.X, Y: r.Min.Y}
	case Bottom:
		return Point{X: c.X, Y: max.Y}
	case Left:
		return Point{X: r.Min.X, Y: c.Y}
	default:
		return Point{X: max.X, Y: c.Y}
	}
}
