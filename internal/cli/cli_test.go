package cli

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	gocube "github.com/SeamusWaldron/gocube_vision"
	"github.com/SeamusWaldron/gocube_vision/internal/config"
	"github.com/SeamusWaldron/gocube_vision/internal/storage"
)

func useTempConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	c := config.Default()
	c.DataDir = t.TempDir()
	c.Log.File = ""
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestSolveState_RecordsAndReuses(t *testing.T) {
	useTempConfig(t)
	db, err := openDB()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cube := gocube.NewCube()
	cube.ApplyMoves([]gocube.Move{gocube.R, gocube.U})
	state := cube.State()

	sol, id, err := solveState(context.Background(), db, state)
	if err != nil {
		t.Fatalf("solveState error = %v", err)
	}
	if len(sol) == 0 || id == "" {
		t.Fatalf("solveState = %v, %q", sol, id)
	}
	check := gocube.CubeFromState(state)
	check.ApplyMoves(sol)
	if !check.IsSolved() {
		t.Errorf("%v does not solve the state", sol)
	}

	rec, err := storage.NewSolutionRepository(db).Get(id)
	if err != nil || rec == nil || rec.Engine != "twophase" || rec.State != state.String() {
		t.Fatalf("record = %+v, %v", rec, err)
	}

	again, id2, err := solveState(context.Background(), db, state)
	if err != nil || id2 != id || again.String() != sol.String() {
		t.Errorf("second solve = %v, %q, %v; want reuse of %q", again, id2, err, id)
	}
}

func TestSolveState_RecordsFailure(t *testing.T) {
	useTempConfig(t)
	db, err := openDB()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	// A single twisted corner cannot be solved.
	s := []byte(gocube.SolvedState)
	s[8], s[9], s[20] = 'F', 'U', 'R'
	state, err := gocube.ParseState(string(s))
	if err != nil {
		t.Fatal(err)
	}

	_, id, err := solveState(context.Background(), db, state)
	if !errors.Is(err, gocube.ErrUnsolvableState) {
		t.Fatalf("error = %v, want ErrUnsolvableState", err)
	}
	rec, _ := storage.NewSolutionRepository(db).Get(id)
	if rec == nil || rec.Solved() {
		t.Errorf("failure not recorded: %+v", rec)
	}
}

func TestExplainBuildError(t *testing.T) {
	err := explainBuildError(&gocube.ColorCountError{Counts: [6]int{8, 10, 9, 9, 9, 9}})
	if !errors.Is(err, gocube.ErrInvalidColorDistribution) {
		t.Errorf("error chain lost: %v", err)
	}
	for _, want := range []string{"U (white center): 8", "R (red center): 10"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message missing %q:\n%v", want, err)
		}
	}

	err = explainBuildError(&gocube.IncompleteScanError{Missing: []gocube.Face{gocube.FaceD, gocube.FaceB}})
	if !strings.Contains(err.Error(), "Capture a frame for: D, B") {
		t.Errorf("message = %v", err)
	}
}

func TestRenderNet(t *testing.T) {
	lines := strings.Split(renderNet(gocube.State{}), "\n")
	if len(lines) != 9 {
		t.Fatalf("%d lines, want 9", len(lines))
	}
	if strings.Count(lines[4], "■") != 12 {
		t.Errorf("middle row = %q", lines[4])
	}
}

func TestInstructions(t *testing.T) {
	sol, _ := gocube.ParseSolution("R U2 F'")
	steps, err := instructions(sol)
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 3 || steps[2].Step != 3 || steps[1].Cue.Arrows != 2 {
		t.Errorf("instructions = %+v", steps)
	}

	if _, err := instructions(nil); !errors.Is(err, gocube.ErrNoSolution) {
		t.Errorf("nil solution error = %v", err)
	}
}

func TestLoadState(t *testing.T) {
	useTempConfig(t)
	if _, err := loadState([]string{"UUU"}); !errors.Is(err, gocube.ErrMalformedState) {
		t.Errorf("short state error = %v", err)
	}
	if _, err := loadState(nil); err == nil {
		t.Error("expected error without a state file")
	}
	s, err := loadState([]string{" " + gocube.SolvedState + "\n"})
	if err != nil || !s.IsSolved() {
		t.Errorf("loadState = %v, %v", s, err)
	}
}

func TestDatabasePathFollowsDataDir(t *testing.T) {
	useTempConfig(t)
	if got := cfg.DatabasePath(); got != filepath.Join(cfg.DataDir, "gocube.db") {
		t.Errorf("DatabasePath() = %s", got)
	}
}

func TestGuide_AlreadySolvedRecordsSession(t *testing.T) {
	useTempConfig(t)
	db, err := openDB()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	state, _ := gocube.ParseState(gocube.SolvedState)
	sol, id, err := solveState(context.Background(), db, state)
	if err != nil || len(sol) != 0 {
		t.Fatalf("solveState = %v, %v", sol, err)
	}
	if err := guide(db, sol, id, &state); err != nil {
		t.Fatalf("guide error = %v", err)
	}

	sessions, err := storage.NewGuidanceRepository(db).List(10)
	if err != nil || len(sessions) != 1 {
		t.Fatalf("sessions = %+v, %v", sessions, err)
	}
	g := sessions[0]
	if g.SolutionID != id || g.Status != gocube.StatusComplete.String() || g.TotalSteps != 0 || g.EndedAt == nil {
		t.Errorf("session = %+v", g)
	}
	if g.ExpectedSolved == nil || !*g.ExpectedSolved {
		t.Errorf("ExpectedSolved = %v", g.ExpectedSolved)
	}
}

func TestRecordedSolution_UnreadableState(t *testing.T) {
	useTempConfig(t)
	core, logs := observer.New(zap.WarnLevel)
	prev := logger
	logger = zap.New(core)
	t.Cleanup(func() { logger = prev })

	db, err := openDB()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	id, err := storage.NewSolutionRepository(db).Record(storage.SolveRun{
		State:  "not a cube",
		Engine: "twophase",
		Moves:  gocube.Solution{gocube.R},
	})
	if err != nil {
		t.Fatal(err)
	}

	sol, start, err := recordedSolution(db, id)
	if err != nil || start != nil || sol.String() != "R" {
		t.Fatalf("recordedSolution = %v, %v, %v", sol, start, err)
	}
	if n := logs.FilterMessageSnippet("recorded state unreadable").Len(); n != 1 {
		t.Errorf("%d warnings logged, want 1", n)
	}
}
