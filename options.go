package gocube

import (
	"time"

	"go.uber.org/zap"
)

// Defaults for the solver adapter.
const (
	// DefaultMaxSearchTime bounds a single solve (option max_search_time).
	DefaultMaxSearchTime = 5 * time.Second

	// DefaultMaxDepth is the longest solution the built-in engines accept.
	DefaultMaxDepth = 24
)

// Option configures Solver behavior.
type Option func(*config)

type config struct {
	maxSearchTime time.Duration
	maxDepth      int
	engine        Engine
	logger        *zap.Logger
}

func defaultConfig() *config {
	return &config{
		maxSearchTime: DefaultMaxSearchTime,
		maxDepth:      DefaultMaxDepth,
		logger:        zap.NewNop(),
	}
}

// WithMaxSearchTime sets the time budget of one solve. Values <= 0 keep the
// default.
func WithMaxSearchTime(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.maxSearchTime = d
		}
	}
}

// WithMaxDepth sets the longest solution the built-in engine accepts.
// It has no effect when a custom engine is supplied.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithEngine replaces the built-in two-phase engine, for example with an
// ExecEngine running an external solver.
func WithEngine(e Engine) Option {
	return func(c *config) {
		c.engine = e
	}
}

// WithLogger sets the logger used for solver diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
