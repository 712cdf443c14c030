package gocube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Engine is a solving algorithm: a 54-letter facelet string in, a
// whitespace-separated move sequence out. Engines report illegal states by
// wrapping ErrUnsolvableState and exhausted budgets by wrapping
// ErrSolverTimeout or returning the context's error.
type Engine interface {
	Solve(ctx context.Context, state string) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, state string) (string, error)

// Solve calls f.
func (f EngineFunc) Solve(ctx context.Context, state string) (string, error) {
	return f(ctx, state)
}

// engineName returns a short label for logs and records.
func engineName(e Engine) string {
	if n, ok := e.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", e)
}

// Solver wraps an Engine: it rejects malformed input before the engine
// runs, bounds the engine by max_search_time and normalizes its result.
// Failures are returned, never retried.
type Solver struct {
	cfg *config
}

// NewSolver creates a solver. Without WithEngine it uses the built-in
// TwoPhaseEngine.
func NewSolver(opts ...Option) *Solver {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.engine == nil {
		cfg.engine = NewTwoPhaseEngine(cfg.maxDepth)
	}
	return &Solver{cfg: cfg}
}

// MaxSearchTime returns the configured time budget.
func (s *Solver) MaxSearchTime() time.Duration {
	return s.cfg.maxSearchTime
}

// EngineName returns the name of the engine in use.
func (s *Solver) EngineName() string {
	return engineName(s.cfg.engine)
}

// Solve returns a move sequence that solves the state. An already solved
// state yields an empty, non-nil Solution.
func (s *Solver) Solve(ctx context.Context, state string) (Solution, error) {
	st, err := ParseState(state)
	if err != nil {
		return nil, err
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.cfg.maxSearchTime)
	defer cancel()

	start := time.Now()
	out, err := s.cfg.engine.Solve(searchCtx, state)
	elapsed := time.Since(start)

	if err != nil {
		err = s.classify(ctx, searchCtx, err)
		s.cfg.logger.Info("solve failed",
			zap.String("engine", s.EngineName()),
			zap.String("state", state),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	sol, err := ParseSolution(out)
	if err != nil {
		return nil, fmt.Errorf("gocube: engine %s returned invalid moves: %w", s.EngineName(), err)
	}
	sol = Simplify(sol)

	cube := CubeFromState(st)
	cube.ApplyMoves(sol)
	if !cube.IsSolved() {
		return nil, fmt.Errorf("gocube: engine %s returned %q which does not solve the state", s.EngineName(), sol.String())
	}

	s.cfg.logger.Info("solve finished",
		zap.String("engine", s.EngineName()),
		zap.Int("moves", len(sol)),
		zap.Duration("elapsed", elapsed),
	)
	return sol, nil
}

// classify maps an engine error onto the solver taxonomy.
func (s *Solver) classify(parent, searchCtx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrUnsolvableState), errors.Is(err, ErrSolverTimeout), errors.Is(err, ErrMalformedState):
		return err
	case parent.Err() != nil:
		// The caller gave up; not a budget problem.
		return parent.Err()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(searchCtx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: exceeded max_search_time of %s", ErrSolverTimeout, s.cfg.maxSearchTime)
	default:
		return fmt.Errorf("gocube: engine %s failed: %w", s.EngineName(), err)
	}
}

// Solve solves a state with a one-off Solver.
func Solve(ctx context.Context, state string, opts ...Option) (Solution, error) {
	return NewSolver(opts...).Solve(ctx, state)
}
