package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds loom configuration.
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Wheel  WheelConfig  `toml:"wheel"`
	Input  InputConfig  `toml:"input"`
	Theme  ThemeConfig  `toml:"theme"`
	Export ExportConfig `toml:"export"`
	Log    LogConfig    `toml:"log"`
}

// CanvasConfig sizes new nodes and framing. Units are canvas cells.
type CanvasConfig struct {
	NodeWidth        float64 `toml:"node_width"`
	NodeHeight       float64 `toml:"node_height"`
	FitMargin        float64 `toml:"fit_margin"`
	FitOnStart       bool    `toml:"fit_on_start"`
	DuplicateOffsetX float64 `toml:"duplicate_offset_x"`
	DuplicateOffsetY float64 `toml:"duplicate_offset_y"`
}

// WheelConfig tunes how scroll events split into zoom and pan.
type WheelConfig struct {
	ZoomThreshold  float64 `toml:"zoom_threshold"`
	ZoomStep       float64 `toml:"zoom_step"`
	ButtonZoomStep float64 `toml:"button_zoom_step"`
	PanStep        float64 `toml:"pan_step"`
}

// InputConfig controls pointer hit radii (screen cells) and double-click
// timing.
type InputConfig struct {
	DoubleClickMS   int     `toml:"double_click_ms"`
	AnchorRadius    float64 `toml:"anchor_radius"`
	EdgeHoverRadius float64 `toml:"edge_hover_radius"`
}

type ThemeConfig struct {
	Color    bool   `toml:"color"`
	Edge     string `toml:"edge"`
	Accent   string `toml:"accent"`
	Node     string `toml:"node"`
	Selected string `toml:"selected"`
	Muted    string `toml:"muted"`
}

type ExportConfig struct {
	// Directory receives exports given as bare file names.
	Directory string `toml:"directory"`
}

type LogConfig struct {
	File string `toml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			NodeWidth:        24,
			NodeHeight:       7,
			FitMargin:        2,
			DuplicateOffsetX: 4,
			DuplicateOffsetY: 2,
		},
		Wheel: WheelConfig{
			ZoomThreshold:  50,
			ZoomStep:       1.1,
			ButtonZoomStep: 1.25,
			PanStep:        4,
		},
		Input: InputConfig{
			DoubleClickMS:   400,
			AnchorRadius:    1,
			EdgeHoverRadius: 1,
		},
		Theme: ThemeConfig{
			Color:    true,
			Edge:     "244",
			Accent:   "212",
			Node:     "252",
			Selected: "86",
			Muted:    "240",
		},
	}
}

// ConfigDir returns the loom config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "loom")
}

// Path is the default config file location.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config at path. A missing file yields the defaults. A
// file that does not parse also yields the defaults, along with the error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to disk.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Save(path, Default())
}

// normalize replaces values that would break the editor with defaults.
func (c *Config) normalize() {
	d := Default()
	positive := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	positive(&c.Canvas.NodeWidth, d.Canvas.NodeWidth)
	positive(&c.Canvas.NodeHeight, d.Canvas.NodeHeight)
	positive(&c.Wheel.ZoomThreshold, d.Wheel.ZoomThreshold)
	positive(&c.Wheel.PanStep, d.Wheel.PanStep)
	positive(&c.Input.AnchorRadius, d.Input.AnchorRadius)
	positive(&c.Input.EdgeHoverRadius, d.Input.EdgeHoverRadius)
	if c.Canvas.FitMargin < 0 {
		c.Canvas.FitMargin = d.Canvas.FitMargin
	}
	if c.Wheel.ZoomStep <= 1 {
		c.Wheel.ZoomStep = d.Wheel.ZoomStep
	}
	if c.Wheel.ButtonZoomStep <= 1 {
		c.Wheel.ButtonZoomStep = d.Wheel.ButtonZoomStep
	}
	if c.Input.DoubleClickMS <= 0 {
		c.Input.DoubleClickMS = d.Input.DoubleClickMS
	}
}

func (c *Config) DoubleClick() time.Duration {
	return time.Duration(c.Input.DoubleClickMS) * time.Millisecond
}

// ExportPath resolves an export file name. Bare names go into the export
// directory when one is configured.
func (c *Config) ExportPath(name string) (string, error) {
	dir := c.Export.Directory
	if dir == "" || filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve export directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}
