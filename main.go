package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"loom/internal/board"
	"loom/internal/config"
	"loom/internal/graph"
)

var version = "0.3.0"

var (
	brand  = color.New(color.FgHiMagenta, color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

var (
	configPath string
	logPath    string
	fitOnStart bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loom [board.yaml]",
		Short: "loom - an infinite canvas of notes in your terminal",
		Long: brand.Sprint("loom") + " - arrange notes on an infinite canvas and wire them together\n" +
			subtle.Sprint("Drag nodes, pull connections from their side handles, space+drag to pan, ctrl+wheel to zoom"),
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			boardPath := ""
			if len(args) == 1 {
				boardPath = args[0]
			}
			if err := run(boardPath); err != nil {
				bad.Fprintf(os.Stderr, "loom: %v\n", err)
				return err
			}
			return nil
		},
	}
	cmd.SetVersionTemplate("loom {{ .Version }}\n")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.Path()+")")
	cmd.Flags().StringVar(&logPath, "log", "", "write debug log to this file")
	cmd.Flags().BoolVar(&fitOnStart, "fit", false, "fit the board to the screen on start")
	cmd.AddCommand(exportCmd(), configCmd())
	return cmd
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.Path()
}

// loadConfig never fails: a broken file is reported and the defaults used.
func loadConfig() *config.Config {
	cfg, err := config.Load(resolvedConfigPath())
	if err != nil {
		bad.Fprintf(os.Stderr, "loom: %v (using defaults)\n", err)
	}
	return cfg
}

func loadBoard(path string, cfg *config.Config, store graph.Store) (*board.Board, error) {
	b, err := board.Load(path, nodeSize(cfg))
	if err != nil {
		return nil, err
	}
	if err := b.Apply(store); err != nil {
		return nil, fmt.Errorf("load board %s: %w", path, err)
	}
	return b, nil
}

func run(boardPath string) error {
	cfg := loadConfig()

	logFile := logPath
	if logFile == "" {
		logFile = cfg.Log.File
	}
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "loom")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	store := graph.NewMemory()
	m := newModel(cfg, store)
	if boardPath != "" {
		b, err := loadBoard(boardPath, cfg, store)
		if err != nil {
			return err
		}
		if b.Viewport != nil {
			m.surface.SetViewport(*b.Viewport)
		}
		m.boardName = boardPath
		log.Printf("loaded %s: %d nodes, %d connections", boardPath, len(b.Nodes), len(b.Connections))
	}
	m.fitPending = fitOnStart || cfg.Canvas.FitOnStart

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := config.Watch(ctx, resolvedConfigPath(), 0, func(cfg *config.Config, err error) {
			p.Send(configMsg{cfg: cfg, err: err})
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("config watch: %v", err)
		}
	}()

	_, err := p.Run()
	return err
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create the config file with defaults and print its path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolvedConfigPath()
			if err := config.EnsureExists(path); err != nil {
				bad.Fprintf(os.Stderr, "loom: %v\n", err)
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
