package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/gocube_vision/internal/artifact"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan, build, solve and guide in one go",
	Long: `Run the whole pipeline: sample the six frames, build and validate the
cube state, solve it and start the interactive guide.

The intermediate cube_scan.json and cube_state.txt are written to the data
directory as with the individual commands.

Example:
  gocube-vision run --dir frames/ --overlay-dir overlays/`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addScanFlags(runCmd)
	addGuideFlags(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("[1/4] Sampling faces...")
	set, scanID, err := sampleFrames(db)
	if err != nil {
		return explainScanError(err)
	}
	if err := artifact.WriteScan(artifact.ScanPath(cfg.DataDir), set); err != nil {
		return err
	}

	fmt.Println("[2/4] Building cube state...")
	state, err := buildFromScan(db, set, scanID)
	if err != nil {
		return err
	}
	if err := artifact.WriteState(artifact.StatePath(cfg.DataDir), state); err != nil {
		return err
	}
	fmt.Println(renderNet(state))

	fmt.Printf("[3/4] Solving with the %s engine...\n", cfg.Engine)
	ctx, cancel := signalContext()
	defer cancel()
	sol, solutionID, err := solveState(ctx, db, state)
	if err != nil {
		return err
	}
	fmt.Printf("Solution (%d moves): %s\n", len(sol), sol)

	fmt.Println("[4/4] Guiding...")
	return guide(db, sol, solutionID, &state)
}
