package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gocube "github.com/SeamusWaldron/gocube_vision"
	"github.com/SeamusWaldron/gocube_vision/internal/artifact"
	"github.com/SeamusWaldron/gocube_vision/internal/storage"
)

var (
	solveFresh bool
	solveDepth int
)

var solveCmd = &cobra.Command{
	Use:   "solve [STATE]",
	Short: "Compute a solution for a cube state",
	Long: `Compute a move sequence that solves the cube.

STATE is a 54-letter facelet string over URFDLB in U, R, F, D, L, B face
order. Without it the state built by 'gocube-vision build' is used.

A state solved before is answered from the database; use --fresh to run the
solver again.

Examples:
  gocube-vision solve
  gocube-vision solve UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB
  gocube-vision solve --engine exec --max-search-time 10s`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().BoolVar(&solveFresh, "fresh", false, "Ignore solutions found earlier")
	solveCmd.Flags().IntVar(&solveDepth, "max-depth", 0, "Longest solution the built-in engines accept")
}

// loadState reads the state from the argument or from the state file.
func loadState(args []string) (gocube.State, error) {
	if len(args) == 1 {
		return gocube.ParseState(strings.TrimSpace(args[0]))
	}
	return artifact.ReadState(artifact.StatePath(cfg.DataDir))
}

// solveState runs the solver and records the run. It returns the solution
// and the ID of its record.
func solveState(ctx context.Context, db *storage.DB, state gocube.State) (gocube.Solution, string, error) {
	solutions := storage.NewSolutionRepository(db)
	text := state.String()

	if !solveFresh {
		prev, err := solutions.FindSolved(text)
		if err != nil {
			logger.Warn("solution lookup failed", zap.Error(err))
		}
		if prev != nil {
			if sol, err := prev.Parsed(); err == nil {
				logger.Info("reusing solution", zap.String("solution_id", prev.SolutionID))
				return sol, prev.SolutionID, nil
			}
		}
	}

	solver := gocube.NewSolver(cfg.SolverOptions(logger)...)

	start := time.Now()
	sol, solveErr := solver.Solve(ctx, text)
	elapsed := time.Since(start)

	run := storage.SolveRun{
		ScanID:   scanIDFor(db, text),
		State:    text,
		Engine:   solver.EngineName(),
		Moves:    sol,
		Duration: elapsed,
		Err:      solveErr,
	}
	id, err := solutions.Record(run)
	if err != nil {
		logger.Warn("failed to record solution", zap.Error(err))
	}
	if solveErr != nil {
		return nil, id, explainSolveError(solveErr, solver.MaxSearchTime())
	}
	return sol, id, nil
}

// scanIDFor returns the last scan if it built this state.
func scanIDFor(db *storage.DB, state string) string {
	last, err := storage.NewScanRepository(db).GetLast()
	if err != nil || last == nil || last.State == nil || *last.State != state {
		return ""
	}
	return last.ScanID
}

func explainSolveError(err error, limit time.Duration) error {
	switch {
	case errors.Is(err, gocube.ErrSolverTimeout):
		return fmt.Errorf("%w\nNo solution within %s; try a longer --max-search-time", err, limit)
	case errors.Is(err, gocube.ErrUnsolvableState):
		return fmt.Errorf("%w\nThe colors do not form a reachable cube; rescan and rebuild", err)
	case errors.Is(err, context.Canceled):
		return errors.New("solve cancelled")
	}
	return err
}

// signalContext is cancelled on Ctrl+C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSolve(cmd *cobra.Command, args []string) error {
	state, err := loadState(args)
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if solveDepth > 0 {
		cfg.MaxDepth = solveDepth
	}

	fmt.Printf("Solving with the %s engine (limit %s)...\n", cfg.Engine, cfg.MaxSearchTime)
	start := time.Now()
	sol, id, err := solveState(ctx, db, state)
	if err != nil {
		return err
	}

	if len(sol) == 0 {
		fmt.Println("The cube is already solved.")
		return nil
	}

	fmt.Printf("Solution (%d moves, %s): %s\n", len(sol), formatDuration(time.Since(start)), sol)
	fmt.Println()
	printSolution(sol)
	fmt.Println()
	if id != "" {
		fmt.Printf("Solution ID: %s\n", id)
	}
	fmt.Println("Next: gocube-vision guide")
	return nil
}

// printSolution lists the moves ten to a line with their step numbers.
func printSolution(sol gocube.Solution) {
	const perLine = 10
	for i := 0; i < len(sol); i += perLine {
		end := i + perLine
		if end > len(sol) {
			end = len(sol)
		}
		var cells []string
		for j := i; j < end; j++ {
			cells = append(cells, fmt.Sprintf("%2d.%-3s", j+1, sol[j].Notation()))
		}
		fmt.Println("  " + strings.Join(cells, " "))
	}
}
