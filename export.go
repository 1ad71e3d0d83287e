package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"loom/internal/config"
	"loom/internal/graph"
	"loom/internal/render"
)

var (
	exportPNG    string
	exportTXT    string
	exportWidth  int
	exportHeight int
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <board.yaml>",
		Short: "Render a board to PNG or plain text",
		Example: "  loom export plan.yaml --png plan.png\n" +
			"  loom export plan.yaml --txt - --width 120 --height 40",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportPNG == "" && exportTXT == "" {
				exportPNG = defaultExportName(args[0], ".png")
			}
			if err := runExport(loadConfig(), args[0]); err != nil {
				bad.Fprintf(os.Stderr, "loom: %v\n", err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&exportPNG, "png", "", "write a PNG image to this file")
	cmd.Flags().StringVar(&exportTXT, "txt", "", "write box-drawing text to this file (- for stdout)")
	cmd.Flags().IntVar(&exportWidth, "width", 0, "fit into this many columns")
	cmd.Flags().IntVar(&exportHeight, "height", 0, "fit into this many rows")
	return cmd
}

func defaultExportName(boardPath, ext string) string {
	base := filepath.Base(boardPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

func runExport(cfg *config.Config, boardPath string) error {
	store := graph.NewMemory()
	if _, err := loadBoard(boardPath, cfg, store); err != nil {
		return err
	}
	opts := render.ExportOptions{Width: exportWidth, Height: exportHeight}
	nodes, conns := store.Nodes(), store.Connections()

	if exportTXT != "" {
		if err := exportText(cfg, exportTXT, nodes, conns, opts); err != nil {
			return err
		}
	}
	if exportPNG != "" {
		path, err := cfg.ExportPath(exportPNG)
		if err != nil {
			return err
		}
		if err := render.ExportPNG(path, nodes, conns, opts); err != nil {
			return fmt.Errorf("export png: %w", err)
		}
		good.Printf("wrote %s\n", path)
	}
	return nil
}

func exportText(cfg *config.Config, name string, nodes []graph.Node, conns []graph.Connection, opts render.ExportOptions) error {
	if name == "-" {
		return render.ExportText(os.Stdout, nodes, conns, opts)
	}
	path, err := cfg.ExportPath(name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export text: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := render.ExportText(w, nodes, conns, opts); err != nil {
		return fmt.Errorf("export text: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("export text: %w", err)
	}
	good.Printf("wrote %s\n", path)
	return nil
}
