package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_vision/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent scans, solutions and guidance sessions",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of rows per table")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	scans, err := storage.NewScanRepository(db).List(historyLimit)
	if err != nil {
		return err
	}
	fmt.Println("Scans")
	fmt.Println("-----")
	if len(scans) == 0 {
		fmt.Println("  none")
	}
	for _, s := range scans {
		outcome := "not built"
		switch {
		case s.State != nil:
			outcome = "built"
		case s.BuildError != nil:
			outcome = "build failed: " + *s.BuildError
		}
		source := ""
		if s.Source != nil {
			source = *s.Source
		}
		fmt.Printf("  %s  %s  %-20s %s\n", shortID(s.ScanID), s.CreatedAt.Local().Format(time.DateTime), source, outcome)
	}
	fmt.Println()

	solutions, err := storage.NewSolutionRepository(db).List(historyLimit)
	if err != nil {
		return err
	}
	fmt.Println("Solutions")
	fmt.Println("---------")
	if len(solutions) == 0 {
		fmt.Println("  none")
	}
	for i := range solutions {
		s := &solutions[i]
		dur := time.Duration(s.DurationMs) * time.Millisecond
		fmt.Printf("  %s  %s  %-12s %8s  %s\n", shortID(s.SolutionID), s.CreatedAt.Local().Format(time.DateTime),
			s.Engine, formatDuration(dur), solutionSummary(s))
	}
	fmt.Println()

	sessions, err := storage.NewGuidanceRepository(db).List(historyLimit)
	if err != nil {
		return err
	}
	fmt.Println("Guidance sessions")
	fmt.Println("-----------------")
	if len(sessions) == 0 {
		fmt.Println("  none")
	}
	for _, g := range sessions {
		expected := ""
		if g.ExpectedSolved != nil && !*g.ExpectedSolved {
			expected = "  (tracked cube not solved)"
		}
		fmt.Printf("  %s  %s  %-22s %d/%d%s\n", shortID(g.SessionID), g.StartedAt.Local().Format(time.DateTime),
			g.Status, g.StepsConfirmed, g.TotalSteps, expected)
	}
	return nil
}
