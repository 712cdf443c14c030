package gocube

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func checkSolves(t *testing.T, state State, sol Solution) {
	t.Helper()
	c := CubeFromState(state)
	c.ApplyMoves(sol)
	if !c.IsSolved() {
		t.Errorf("%q does not solve %s", sol.String(), state)
		t.Log(c.String())
	}
}

func TestSolve_SolvedStateGivesEmptySolution(t *testing.T) {
	sol, err := Solve(context.Background(), SolvedState)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol == nil || len(sol) != 0 {
		t.Errorf("Solve() = %#v, want empty non-nil solution", sol)
	}
}

func TestSolve_MalformedBeforeEngine(t *testing.T) {
	called := false
	engine := EngineFunc(func(ctx context.Context, state string) (string, error) {
		called = true
		return "", nil
	})

	for _, input := range []string{SolvedState[:53], SolvedState + "U", strings.Replace(SolvedState, "F", "G", 1)} {
		_, err := Solve(context.Background(), input, WithEngine(engine))
		if !errors.Is(err, ErrMalformedState) {
			t.Errorf("Solve(%d chars) error = %v, want ErrMalformedState", len(input), err)
		}
	}
	if called {
		t.Error("engine should not run for malformed input")
	}
}

func TestSolve_ShortScrambles(t *testing.T) {
	scrambles := []string{"R", "U2", "R U", "F' L2", "R U F' L2"}

	for _, s := range scrambles {
		t.Run(s, func(t *testing.T) {
			state := scrambled(t, s)
			sol, err := Solve(context.Background(), state.String())
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			checkSolves(t, state, sol)
		})
	}
}

func TestSolve_LongScrambles(t *testing.T) {
	scrambles := []string{
		"D2 F' R U2 L' B2 D R' F2 U L2 B' R D' F U2 L B' D2 R'",
		"B U' L2 D F' R2 U B' L D2 R F U' L' B2 D' F2 R' U2 L",
		"R' F' U R2 D' B L U2 F' D R' B2 L' U F2 D2 R B' U' L2",
	}

	for _, s := range scrambles {
		state := scrambled(t, s)
		start := time.Now()
		sol, err := Solve(context.Background(), state.String())
		if err != nil {
			t.Fatalf("Solve(%q) error = %v after %s", s, err, time.Since(start))
		}
		checkSolves(t, state, sol)
		if len(sol) > DefaultMaxDepth {
			t.Errorf("solution has %d moves, want at most %d", len(sol), DefaultMaxDepth)
		}
	}
}

func TestSolve_SubgroupScramble(t *testing.T) {
	// Only U, D and half turns: already in the phase 2 subgroup.
	state := scrambled(t, "U R2 D' F2 L2 U2 B2")
	sol, err := Solve(context.Background(), state.String())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	checkSolves(t, state, sol)
}

func TestSearchEngine_Shortest(t *testing.T) {
	scrambles := []string{"R", "U2", "R U", "F' L2", "R U F' L2"}

	for _, s := range scrambles {
		t.Run(s, func(t *testing.T) {
			state := scrambled(t, s)
			sol, err := Solve(context.Background(), state.String(), WithEngine(NewSearchEngine(0)))
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			checkSolves(t, state, sol)

			// Iterative deepening finds a shortest solution.
			scramble, _ := ParseSolution(s)
			if len(sol) > len(scramble) {
				t.Errorf("solution %q longer than scramble %q", sol.String(), s)
			}
		})
	}
}

func TestSolve_Unsolvable(t *testing.T) {
	state, _ := ParseState(SolvedState)
	state[8], state[9], state[20] = ColorF, ColorU, ColorR // twisted corner

	_, err := Solve(context.Background(), state.String())
	if !errors.Is(err, ErrUnsolvableState) {
		t.Errorf("Solve() error = %v, want ErrUnsolvableState", err)
	}
}

func TestSolve_Timeout(t *testing.T) {
	state := scrambled(t, "F B2 L' D U2 R F' D2 B L R2 U")

	start := time.Now()
	_, err := Solve(context.Background(), state.String(),
		WithEngine(NewSearchEngine(0)),
		WithMaxSearchTime(20*time.Millisecond),
	)
	if !errors.Is(err, ErrSolverTimeout) {
		t.Fatalf("Solve() error = %v, want ErrSolverTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %s", elapsed)
	}
}

func TestSolve_DepthBudgetExhausted(t *testing.T) {
	state := scrambled(t, "R U F")
	engines := map[string]Engine{
		"twophase": NewTwoPhaseEngine(2),
		"search":   NewSearchEngine(2),
	}
	for name, engine := range engines {
		_, err := Solve(context.Background(), state.String(), WithEngine(engine))
		if !errors.Is(err, ErrSolverTimeout) {
			t.Errorf("%s: Solve() error = %v, want ErrSolverTimeout", name, err)
		}
	}
}

func TestSolve_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := EngineFunc(func(ctx context.Context, state string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	_, err := Solve(ctx, SolvedState, WithEngine(engine))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Solve() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrSolverTimeout) {
		t.Error("caller cancellation should not be reported as a timeout")
	}
}

func TestSolve_EngineOutputParsedStrictly(t *testing.T) {
	engine := EngineFunc(func(ctx context.Context, state string) (string, error) {
		return "R Q", nil
	})
	_, err := Solve(context.Background(), SolvedState, WithEngine(engine))
	if !errors.Is(err, ErrInvalidNotation) {
		t.Errorf("Solve() error = %v, want ErrInvalidNotation", err)
	}
}

func TestSolve_EngineOutputSimplified(t *testing.T) {
	state := scrambled(t, "R2")
	engine := EngineFunc(func(ctx context.Context, state string) (string, error) {
		return "R R U U'", nil
	})
	sol, err := Solve(context.Background(), state.String(), WithEngine(engine))
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.String() != "R2" {
		t.Errorf("Solve() = %q, want R2", sol.String())
	}
}

func TestSolve_EngineWrongAnswer(t *testing.T) {
	engine := EngineFunc(func(ctx context.Context, state string) (string, error) {
		return "R", nil
	})
	if _, err := Solve(context.Background(), SolvedState, WithEngine(engine)); err == nil {
		t.Error("a solution that does not solve the state should be rejected")
	}
}

func TestSolver_Options(t *testing.T) {
	s := NewSolver()
	if s.MaxSearchTime() != DefaultMaxSearchTime {
		t.Errorf("MaxSearchTime() = %s", s.MaxSearchTime())
	}
	if s.EngineName() != "twophase" {
		t.Errorf("EngineName() = %q", s.EngineName())
	}

	s = NewSolver(WithMaxSearchTime(-1), WithEngine(NewExecEngine("kociemba")))
	if s.MaxSearchTime() != DefaultMaxSearchTime {
		t.Error("non-positive max_search_time should keep the default")
	}
	if s.EngineName() != "exec:kociemba" {
		t.Errorf("EngineName() = %q", s.EngineName())
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecEngine_Solution(t *testing.T) {
	requireShell(t)

	state := scrambled(t, "U' R2")
	// The state arrives as $1; print a fixed answer after checking it.
	engine := NewExecEngine("sh", "-c", `test ${#1} -eq 54 && echo "R2 U"`, "sh")

	sol, err := NewSolver(WithEngine(engine)).Solve(context.Background(), state.String())
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.String() != "R2 U" {
		t.Errorf("Solve() = %q, want %q", sol.String(), "R2 U")
	}
	checkSolves(t, state, sol)
}

func TestExecEngine_ErrorOutput(t *testing.T) {
	requireShell(t)

	engine := NewExecEngine("sh", "-c", `echo "Error. Probably cubestring is invalid"`, "sh")
	_, err := engine.Solve(context.Background(), SolvedState)
	if !errors.Is(err, ErrUnsolvableState) {
		t.Errorf("Solve() error = %v, want ErrUnsolvableState", err)
	}
}

func TestExecEngine_NonZeroExit(t *testing.T) {
	requireShell(t)

	engine := NewExecEngine("sh", "-c", `echo "bad cube" >&2; exit 3`, "sh")
	_, err := engine.Solve(context.Background(), SolvedState)
	if !errors.Is(err, ErrUnsolvableState) {
		t.Fatalf("Solve() error = %v, want ErrUnsolvableState", err)
	}
	if !strings.Contains(err.Error(), "bad cube") {
		t.Errorf("error should carry stderr, got %v", err)
	}
}

func TestExecEngine_Timeout(t *testing.T) {
	requireShell(t)

	engine := NewExecEngine("sh", "-c", "sleep 5", "sh")
	start := time.Now()
	_, err := Solve(context.Background(), SolvedState, WithEngine(engine), WithMaxSearchTime(50*time.Millisecond))
	if !errors.Is(err, ErrSolverTimeout) {
		t.Fatalf("Solve() error = %v, want ErrSolverTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("timeout took %s", elapsed)
	}
}

func TestExecEngine_MissingBinary(t *testing.T) {
	engine := NewExecEngine("gocube-no-such-solver")
	_, err := engine.Solve(context.Background(), SolvedState)
	if err == nil {
		t.Fatal("Solve() should fail")
	}
	if errors.Is(err, ErrUnsolvableState) {
		t.Error("a missing binary is not an unsolvable state")
	}
}
