package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"studyboard/internal/board"
	"studyboard/internal/clip"
	"studyboard/internal/config"
	"studyboard/internal/logging"
)

var (
	configPath string
	themeFlag  string
	saveDir    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "studyboard",
	Short: "A mouse-driven notes board for the terminal",
	Long: `studyboard is a scratch board of sticky notes for study sessions.

Paste text or images onto the board, drag notes around with the mouse, join
them with lines and arrows, and export the result as SVG or PNG. Nothing is
saved between runs.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "Board theme (light or dark)")
	rootCmd.PersistentFlags().StringVar(&saveDir, "save-dir", "", "Directory exports are written to")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlags lays the command line over a loaded config. It runs again on
// every reload so flags keep winning over the file.
func applyFlags(cfg *config.Config) {
	if themeFlag != "" {
		cfg.Theme = themeFlag
	}
	if saveDir != "" {
		cfg.SetSaveDirectory(saveDir)
	}
}

func run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if themeFlag != "" {
		if _, err := board.ParseTheme(themeFlag); err != nil {
			return err
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg)

	logger, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level, Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var updates <-chan config.Update
	if configPath != "" {
		updates, err = config.Watch(ctx, configPath)
		if err != nil {
			logger.Warn("config reload disabled", zap.String("path", configPath), zap.Error(err))
			updates = nil
		}
	}

	b := board.New(board.WithGeometry(board.CellGeometry()))
	m := newModel(board.NewController(b), clip.NewSource(nil), cfg, logger)
	m.overrides = applyFlags
	m.updates = updates

	logger.Info("starting", zap.String("config", configPath), zap.String("theme", cfg.Theme))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
