// Package config loads gocube-vision settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	gocube "github.com/SeamusWaldron/gocube_vision"
)

// Engine names accepted by the engine key.
const (
	EngineTwoPhase = "twophase"
	EngineSearch   = "search"
	EngineExec     = "exec"
)

// DefaultGridSize is the side of the on-screen scanning grid in pixels.
const DefaultGridSize = 200

// LogConfig controls logging.
type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// Config holds all settings.
type Config struct {
	MaxSearchTime time.Duration `yaml:"max_search_time"`
	MaxDepth      int           `yaml:"max_depth"`
	Engine        string        `yaml:"engine"`
	SolverCommand []string      `yaml:"solver_command"`
	DataDir       string        `yaml:"data_dir"`
	DBPath        string        `yaml:"db_path"`
	GridSize      int           `yaml:"grid_size"`
	Log           LogConfig     `yaml:"log"`
}

// DefaultDir returns ~/.gocube_vision, or a relative directory when the
// home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gocube_vision"
	}
	return filepath.Join(home, ".gocube_vision")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Default returns the built-in settings.
func Default() *Config {
	dir := DefaultDir()
	return &Config{
		MaxSearchTime: gocube.DefaultMaxSearchTime,
		MaxDepth:      gocube.DefaultMaxDepth,
		Engine:        EngineTwoPhase,
		SolverCommand: []string{"kociemba"},
		DataDir:       dir,
		GridSize:      DefaultGridSize,
		Log: LogConfig{
			Level:  "info",
			Format: "legacy",
			File:   filepath.Join(dir, "gocube.log"),
		},
	}
}

// Load reads the file at path (DefaultPath when empty), then applies
// GOCUBE_* environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }

	if v := get("GOCUBE_MAX_SEARCH_TIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GOCUBE_MAX_SEARCH_TIME %q: %w", v, err)
		}
		c.MaxSearchTime = d
	}
	if v := get("GOCUBE_MAX_DEPTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GOCUBE_MAX_DEPTH %q: %w", v, err)
		}
		c.MaxDepth = n
	}
	if v := get("GOCUBE_ENGINE"); v != "" {
		c.Engine = strings.ToLower(v)
	}
	if v := get("GOCUBE_SOLVER_COMMAND"); v != "" {
		c.SolverCommand = strings.Fields(v)
	}
	if v := get("GOCUBE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := get("GOCUBE_DB"); v != "" {
		c.DBPath = v
	}
	if v := get("GOCUBE_GRID_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GOCUBE_GRID_SIZE %q: %w", v, err)
		}
		c.GridSize = n
	}
	if v := get("GOCUBE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := get("GOCUBE_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := get("GOCUBE_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// Validate checks that the settings can be used.
func (c *Config) Validate() error {
	if c.MaxSearchTime <= 0 {
		return fmt.Errorf("max_search_time must be positive, got %s", c.MaxSearchTime)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.GridSize <= 0 {
		return fmt.Errorf("grid_size must be positive, got %d", c.GridSize)
	}
	switch c.Engine {
	case EngineTwoPhase, EngineSearch:
	case EngineExec:
		if len(c.SolverCommand) == 0 {
			return errors.New("engine exec requires solver_command")
		}
	default:
		return fmt.Errorf("unknown engine %q (want %s, %s or %s)", c.Engine, EngineTwoPhase, EngineSearch, EngineExec)
	}
	return nil
}

// DatabasePath returns db_path, defaulting to gocube.db in the data directory.
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "gocube.db")
}

// NewEngine builds the configured solver engine.
func (c *Config) NewEngine() gocube.Engine {
	switch c.Engine {
	case EngineExec:
		return gocube.NewExecEngine(c.SolverCommand...)
	case EngineSearch:
		return gocube.NewSearchEngine(c.MaxDepth)
	default:
		return gocube.NewTwoPhaseEngine(c.MaxDepth)
	}
}

// SolverOptions returns the solver options for these settings.
func (c *Config) SolverOptions(logger *zap.Logger) []gocube.Option {
	return []gocube.Option{
		gocube.WithMaxSearchTime(c.MaxSearchTime),
		gocube.WithMaxDepth(c.MaxDepth),
		gocube.WithEngine(c.NewEngine()),
		gocube.WithLogger(logger),
	}
}
