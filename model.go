package main

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"loom/internal/config"
	"loom/internal/geom"
	"loom/internal/graph"
	"loom/internal/render"
	"loom/internal/surface"
)

type appMode int

const (
	modeCanvas appMode = iota
	modeCreate
	modeEdit
	modeHelp
)

// Clipboard access, swapped out in tests.
var (
	copyText  = writeClipboardText
	pasteText = readClipboardText
)

type configMsg struct {
	cfg *config.Config
	err error
}

type model struct {
	cfg     *config.Config
	surface *surface.Surface
	keys    keyMap
	theme   render.Theme

	width  int
	height int
	mode   appMode
	dialog *dialog

	clicks      clickTracker
	doubleArmed bool
	// Space has no key-up in a terminal, so it toggles.
	panToggled bool

	status    string
	failed    bool
	boardName string

	fitPending bool
	pending    tea.Cmd
}

func newModel(cfg *config.Config, store graph.Store) *model {
	m := &model{
		cfg:    cfg,
		keys:   defaultKeyMap,
		theme:  themeFor(cfg),
		clicks: newClickTracker(cfg.DoubleClick()),
	}
	m.surface = surface.New(store, surfaceOptions(cfg), surface.Collaborators{
		Open: m.openEditor,
		Copy: func(text string) error {
			if err := copyText(text); err != nil {
				m.setError(fmt.Errorf("copy: %w", err))
				return err
			}
			m.setStatus("copied to clipboard")
			return nil
		},
	})
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case configMsg:
		m.reloadConfig(msg.cfg, msg.err)
	case tea.MouseMsg:
		if m.mode == modeCanvas {
			m.handleMouse(msg)
		}
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	}
	return m, m.takePending()
}

func (m *model) resize(width, height int) {
	m.width, m.height = width, height
	m.surface.Dispatch(surface.Resize{Size: geom.Size{
		Width:  float64(width),
		Height: float64(max(height-1, 1)),
	}})
	if m.fitPending {
		m.fitPending = false
		m.surface.Exec(surface.FitView)
	}
}

func (m *model) reloadConfig(cfg *config.Config, err error) {
	if err != nil {
		m.setError(fmt.Errorf("config: %w", err))
		return
	}
	m.cfg = cfg
	m.theme = themeFor(cfg)
	m.clicks.window = cfg.DoubleClick()
	m.surface.SetOptions(surfaceOptions(cfg))
	log.Printf("config reloaded")
	m.setStatus("config reloaded")
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case modeHelp:
		m.mode = modeCanvas
		return nil
	case modeCreate, modeEdit:
		return m.dialogKey(msg)
	}
	return m.canvasKey(msg)
}

func (m *model) quit() tea.Cmd {
	m.surface.Dispatch(surface.Teardown{})
	return tea.Quit
}

// openEditor opens the edit dialog for a node. The surface calls it from
// the context menu.
func (m *model) openEditor(nodeID string) {
	for _, n := range m.surface.Nodes() {
		if n.ID == nodeID {
			m.endPan()
			m.dialog = newEditDialog(n)
			m.mode = modeEdit
			m.pending = m.dialog.focus()
			return
		}
	}
	m.setError(fmt.Errorf("open %s: %w", nodeID, graph.ErrNodeNotFound))
}

func (m *model) openCreate(title, content string, at *geom.Point) {
	m.endPan()
	m.dialog = newCreateDialog(title, content, at)
	m.mode = modeCreate
	m.pending = m.dialog.focus()
}

func (m *model) closeDialog() {
	m.dialog = nil
	m.mode = modeCanvas
}

func (m *model) selected() (graph.Node, bool) {
	id := m.surface.State().Selected
	if id == "" {
		return graph.Node{}, false
	}
	for _, n := range m.surface.Nodes() {
		if n.ID == id {
			return n, true
		}
	}
	return graph.Node{}, false
}

func (m *model) setStatus(s string) {
	m.status, m.failed = s, false
}

func (m *model) setError(err error) {
	log.Printf("error: %v", err)
	m.status, m.failed = err.Error(), true
}
