package gocube

import (
	"context"
	"fmt"
)

// SearchEngine verifies piece-level legality and then runs an
// iterative-deepening A* search over the 18 face turns, so it returns a
// shortest solution. Its bound is weak: states more than about eight moves
// from solved exhaust the time budget. TwoPhaseEngine handles any state.
type SearchEngine struct {
	MaxDepth int
}

// NewSearchEngine creates a search engine. maxDepth <= 0 selects
// DefaultMaxDepth.
func NewSearchEngine(maxDepth int) *SearchEngine {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &SearchEngine{MaxDepth: maxDepth}
}

// Name identifies the engine in logs and solution records.
func (e *SearchEngine) Name() string {
	return "search"
}

// Solve implements Engine.
func (e *SearchEngine) Solve(ctx context.Context, state string) (string, error) {
	st, err := ParseState(state)
	if err != nil {
		return "", err
	}
	if err := st.Verify(); err != nil {
		return "", err
	}

	s := &search{
		ctx:  ctx,
		cube: CubeFromState(st),
		path: make([]Move, 0, e.MaxDepth),
	}
	if s.cube.IsSolved() {
		return "", nil
	}

	for bound := s.estimate(); bound <= e.MaxDepth; bound++ {
		found, err := s.dfs(0, bound, -1)
		if err != nil {
			return "", err
		}
		if found {
			return FormatMoves(s.path), nil
		}
	}
	return "", fmt.Errorf("%w: no solution within %d moves", ErrSolverTimeout, e.MaxDepth)
}

// ctxPollInterval is how many nodes are expanded between context checks.
const ctxPollInterval = 4096

type search struct {
	ctx   context.Context
	cube  *Cube
	path  []Move
	nodes int
}

// estimate is a lower bound on the remaining moves: a face turn moves four
// corners and four edges.
func (s *search) estimate() int {
	corners, edges := s.cube.misplaced()
	hc := (corners + 3) / 4
	he := (edges + 3) / 4
	if hc > he {
		return hc
	}
	return he
}

// quarterTurn maps a quarter-turn count to the move turn.
var quarterTurn = [4]Turn{0, CW, Double, CCW}

func (s *search) dfs(depth, bound, last int) (bool, error) {
	h := s.estimate()
	if h == 0 {
		return true, nil
	}
	if depth+h > bound {
		return false, nil
	}

	s.nodes++
	if s.nodes%ctxPollInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			return false, err
		}
	}

	for f := 0; f < 6; f++ {
		if f == last {
			continue
		}
		// Opposite faces commute; only search them in one order.
		if last >= 0 && FaceOrder[f] == FaceOrder[last].Opposite() && f < last {
			continue
		}
		for q := 1; q <= 3; q++ {
			s.cube.quarter(f)
			s.path = append(s.path, Move{Face: FaceOrder[f], Turn: quarterTurn[q]})
			found, err := s.dfs(depth+1, bound, f)
			if found || err != nil {
				return found, err
			}
			s.path = s.path[:len(s.path)-1]
		}
		s.cube.quarter(f)
	}
	return false, nil
}
