// Package cli implements the command-line interface for gocube-vision.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SeamusWaldron/gocube_vision/internal/config"
	"github.com/SeamusWaldron/gocube_vision/internal/obslog"
	"github.com/SeamusWaldron/gocube_vision/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	configPath    string
	dbPath        string
	dataDir       string
	engineName    string
	maxSearchTime time.Duration
	verbose       bool

	cfg    = config.Default()
	logger = zap.NewNop()
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "gocube-vision",
	Short: "Camera-guided Rubik's Cube solver",
	Long: `gocube-vision - Scan a Rubik's Cube from camera frames, solve it and
guide you through the solution one move at a time.

Hold each face inside the on-screen grid, capture one frame per face, then:

  gocube-vision scan --dir frames/    sample the six faces
  gocube-vision build                 classify colors and validate the cube
  gocube-vision solve                 compute the solution
  gocube-vision guide                 step through the moves

or do all of it at once with 'gocube-vision run --dir frames/'.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		obslog.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.gocube_vision/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: <data-dir>/gocube.db)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory for scan and state files")
	rootCmd.PersistentFlags().StringVar(&engineName, "engine", "", "Solver engine (twophase, search, exec)")
	rootCmd.PersistentFlags().DurationVar(&maxSearchTime, "max-search-time", 0, "Solver time limit (e.g. 5s)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also log to stderr")
}

// setup loads the config, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		loaded.DBPath = dbPath
	}
	if flags.Changed("data-dir") {
		loaded.DataDir = dataDir
	}
	if flags.Changed("engine") {
		loaded.Engine = engineName
	}
	if flags.Changed("max-search-time") {
		loaded.MaxSearchTime = maxSearchTime
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	l, err := obslog.Init(obslog.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		File:    cfg.Log.File,
		Console: verbose || cfg.Log.Console,
	})
	if err != nil {
		return err
	}
	logger = l.With(zap.String("command", cmd.Name()))
	logger.Debug("config loaded",
		zap.String("engine", cfg.Engine),
		zap.Duration("max_search_time", cfg.MaxSearchTime),
		zap.String("data_dir", cfg.DataDir),
	)
	return nil
}

func openDB() (*storage.DB, error) {
	db, err := storage.OpenAndMigrate(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}
