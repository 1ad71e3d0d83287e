// Package board reads seed boards: a YAML list of nodes and edges loaded
// into a store before the editor starts.
package board

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"loom/internal/geom"
	"loom/internal/graph"
)

type yamlBoard struct {
	Viewport *yamlViewport `yaml:"viewport,omitempty"`
	Nodes    []yamlNode    `yaml:"nodes"`
	Edges    []yamlEdge    `yaml:"edges"`
}

type yamlViewport struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Zoom float64 `yaml:"zoom"`
}

type yamlNode struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Content       string   `yaml:"content,omitempty"`
	Tags          []string `yaml:"tags,omitempty"`
	X             float64  `yaml:"x"`
	Y             float64  `yaml:"y"`
	Width         float64  `yaml:"width,omitempty"`
	Height        float64  `yaml:"height,omitempty"`
	Color         string   `yaml:"color,omitempty"`
	Collaborators []string `yaml:"collaborators,omitempty"`
	Breadcrumb    string   `yaml:"breadcrumb,omitempty"`
}

type yamlEdge struct {
	ID       string `yaml:"id,omitempty"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	FromSide string `yaml:"from_side"`
	ToSide   string `yaml:"to_side"`
}

// Board is a decoded seed board.
type Board struct {
	// Viewport is nil when the file does not set one.
	Viewport    *geom.Viewport
	Nodes       []graph.Node
	Connections []graph.Connection
}

// Parse decodes a board. Nodes without a size get defaultSize. Edges are
// checked against the nodes in the same file.
func Parse(r io.Reader, defaultSize geom.Size) (*Board, error) {
	var yb yamlBoard
	if err := yaml.NewDecoder(r).Decode(&yb); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse board YAML: %w", err)
	}

	b := &Board{}
	if yv := yb.Viewport; yv != nil {
		zoom := yv.Zoom
		if zoom == 0 {
			zoom = 1
		}
		b.Viewport = &geom.Viewport{X: yv.X, Y: yv.Y, Zoom: geom.ClampZoom(zoom)}
	}

	ids := map[string]bool{}
	for i, yn := range yb.Nodes {
		n := graph.Node{
			ID:            yn.ID,
			Title:         yn.Title,
			Content:       yn.Content,
			Tags:          yn.Tags,
			Position:      geom.Pt(yn.X, yn.Y),
			Size:          geom.Size{Width: yn.Width, Height: yn.Height},
			Color:         yn.Color,
			Collaborators: yn.Collaborators,
			Breadcrumb:    yn.Breadcrumb,
		}
		if n.Size.Width == 0 {
			n.Size.Width = defaultSize.Width
		}
		if n.Size.Height == 0 {
			n.Size.Height = defaultSize.Height
		}
		if !n.Valid() {
			return nil, fmt.Errorf("node %d (%q): %w", i, yn.ID, graph.ErrInvalidNode)
		}
		if n.ID != "" {
			if ids[n.ID] {
				return nil, fmt.Errorf("node %d: duplicate id %q", i, n.ID)
			}
			ids[n.ID] = true
		}
		b.Nodes = append(b.Nodes, n)
	}

	for i, ye := range yb.Edges {
		from, err := geom.ParseSide(ye.FromSide)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		to, err := geom.ParseSide(ye.ToSide)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		if ye.From == ye.To {
			return nil, fmt.Errorf("edge %d (%s): %w", i, ye.From, graph.ErrSelfConnection)
		}
		for _, id := range []string{ye.From, ye.To} {
			if !ids[id] {
				return nil, fmt.Errorf("edge %d endpoint %q: %w", i, id, graph.ErrNodeNotFound)
			}
		}
		b.Connections = append(b.Connections, graph.Connection{
			ID:         ye.ID,
			FromNodeID: ye.From,
			ToNodeID:   ye.To,
			FromSide:   from,
			ToSide:     to,
		})
	}
	return b, nil
}

func Load(path string, defaultSize geom.Size) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board: %w", err)
	}
	defer f.Close()
	b, err := Parse(f, defaultSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Apply adds the board's nodes, then its connections, to the store.
func (b *Board) Apply(store graph.Store) error {
	for _, n := range b.Nodes {
		if _, err := store.AddNode(n); err != nil {
			return err
		}
	}
	for _, c := range b.Connections {
		if _, err := store.AddConnection(c); err != nil {
			return err
		}
	}
	return nil
}
