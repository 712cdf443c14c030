package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_vision/internal/artifact"
	"github.com/SeamusWaldron/gocube_vision/internal/config"
	"github.com/SeamusWaldron/gocube_vision/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show settings and the state of the pipeline",
	Long:  `Display the active settings, the scan and state files in the data directory and the most recent database records.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("gocube-vision Status")
	fmt.Println("====================")
	fmt.Println()

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Config: %s (not found, using defaults)\n", path)
	} else {
		fmt.Printf("Config: %s\n", path)
	}
	fmt.Printf("Engine: %s (limit %s, max depth %d)\n", cfg.Engine, cfg.MaxSearchTime, cfg.MaxDepth)
	if cfg.Engine == config.EngineExec {
		fmt.Printf("Solver command: %v\n", cfg.SolverCommand)
	}
	fmt.Printf("Grid size: %dpx\n", cfg.GridSize)
	fmt.Printf("Data directory: %s\n", cfg.DataDir)
	fmt.Println()

	for _, f := range []string{artifact.ScanPath(cfg.DataDir), artifact.StatePath(cfg.DataDir)} {
		info, err := os.Stat(f)
		if err != nil {
			fmt.Printf("%s: none\n", f)
			continue
		}
		fmt.Printf("%s: %s\n", f, info.ModTime().Format(time.RFC3339))
	}
	if state, err := artifact.ReadState(artifact.StatePath(cfg.DataDir)); err == nil {
		fmt.Printf("Current state: %s\n", state)
	}
	fmt.Println()

	fmt.Printf("Database: %s\n", cfg.DatabasePath())
	db, err := storage.Open(cfg.DatabasePath())
	if err != nil {
		fmt.Printf("  unavailable: %v\n", err)
		return nil
	}
	defer db.Close()
	if err := db.MigrateUp(); err != nil {
		fmt.Printf("  unavailable: %v\n", err)
		return nil
	}
	v, _ := db.CurrentVersion()
	fmt.Printf("Schema version: %d\n", v)

	if last, _ := storage.NewScanRepository(db).GetLast(); last != nil {
		fmt.Printf("Last scan: %s (%s)\n", last.CreatedAt.Local().Format(time.RFC3339), last.ScanID)
	}
	if sols, _ := storage.NewSolutionRepository(db).List(1); len(sols) > 0 {
		fmt.Printf("Last solve: %s (%s, %s)\n", sols[0].CreatedAt.Local().Format(time.RFC3339), sols[0].Engine, solutionSummary(&sols[0]))
	}
	if sessions, _ := storage.NewGuidanceRepository(db).List(1); len(sessions) > 0 {
		s := sessions[0]
		fmt.Printf("Last guidance: %s (%s, %d/%d)\n", s.StartedAt.Local().Format(time.RFC3339), s.Status, s.StepsConfirmed, s.TotalSteps)
	}
	return nil
}

func solutionSummary(s *storage.Solution) string {
	if !s.Solved() {
		return "failed: " + *s.Error
	}
	return fmt.Sprintf("%d moves", s.MoveCount)
}
