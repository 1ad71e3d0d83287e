package main

import (
	"loom/internal/config"
	"loom/internal/geom"
	"loom/internal/render"
	"loom/internal/surface"
	"loom/internal/viewport"
)

func nodeSize(cfg *config.Config) geom.Size {
	return geom.Size{Width: cfg.Canvas.NodeWidth, Height: cfg.Canvas.NodeHeight}
}

func surfaceOptions(cfg *config.Config) surface.Options {
	opts := surface.DefaultOptions()
	opts.NodeSize = nodeSize(cfg)
	opts.DuplicateOffset = geom.Pt(cfg.Canvas.DuplicateOffsetX, cfg.Canvas.DuplicateOffsetY)
	opts.FitMargin = cfg.Canvas.FitMargin
	opts.Wheel = viewport.WheelPolicy{
		ZoomThreshold: cfg.Wheel.ZoomThreshold,
		ZoomStep:      cfg.Wheel.ZoomStep,
	}
	opts.ZoomStep = cfg.Wheel.ButtonZoomStep
	opts.PanStep = cfg.Wheel.PanStep
	opts.AnchorRadius = cfg.Input.AnchorRadius
	opts.EdgeHoverRadius = cfg.Input.EdgeHoverRadius
	return opts
}

func themeFor(cfg *config.Config) render.Theme {
	if !cfg.Theme.Color {
		return render.Plain()
	}
	return render.NewTheme(render.Colors{
		Edge:     cfg.Theme.Edge,
		Accent:   cfg.Theme.Accent,
		Node:     cfg.Theme.Node,
		Selected: cfg.Theme.Selected,
		Muted:    cfg.Theme.Muted,
	})
}
