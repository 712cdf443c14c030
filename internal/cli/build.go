package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gocube "github.com/SeamusWaldron/gocube_vision"
	"github.com/SeamusWaldron/gocube_vision/internal/artifact"
	"github.com/SeamusWaldron/gocube_vision/internal/storage"
)

var (
	buildScanID string
	buildOutput string
)

var buildCmd = &cobra.Command{
	Use:   "build [scan.json]",
	Short: "Classify the scanned colors and validate the cube",
	Long: `Classify every sampled sticker against the six face centers, assemble the
54-facelet cube state and check that it is a plausible cube: nine stickers
of each color and six distinct centers.

Reads <data-dir>/cube_scan.json unless a file or --scan is given, and writes
the state to <data-dir>/cube_state.txt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildScanID, "scan", "", "Build from a recorded scan ID")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "State file (default: <data-dir>/cube_state.txt)")
}

// loadScan picks the scan to build from: a recorded scan, a file, or the
// default scan file. The returned ID is empty when the scan is not known to
// the database.
func loadScan(db *storage.DB, args []string) (*gocube.ScanSet, string, error) {
	scans := storage.NewScanRepository(db)

	if buildScanID != "" {
		scan, err := scans.Get(buildScanID)
		if err != nil {
			return nil, "", err
		}
		if scan == nil {
			return nil, "", fmt.Errorf("scan %s not found", buildScanID)
		}
		set, err := scan.ScanSet()
		return set, scan.ScanID, err
	}

	if len(args) == 1 {
		set, err := artifact.ReadScan(args[0])
		return set, "", err
	}

	set, err := artifact.ReadScan(artifact.ScanPath(cfg.DataDir))
	if err != nil {
		return nil, "", err
	}
	// The default file is written by the last scan.
	last, err := scans.GetLast()
	if err != nil || last == nil {
		return set, "", err
	}
	return set, last.ScanID, nil
}

// buildFromScan builds and validates the state and records the outcome
// against scanID when it is set.
func buildFromScan(db *storage.DB, set *gocube.ScanSet, scanID string) (gocube.State, error) {
	state, buildErr := gocube.BuildState(set)
	if scanID != "" {
		if err := storage.NewScanRepository(db).RecordBuild(scanID, state, buildErr); err != nil {
			logger.Warn("failed to record build", zap.String("scan_id", scanID), zap.Error(err))
		}
	}
	if buildErr != nil {
		logger.Info("build failed", zap.String("scan_id", scanID), zap.Error(buildErr))
		return state, explainBuildError(buildErr)
	}
	logger.Info("state built", zap.String("scan_id", scanID), zap.Stringer("state", state))
	return state, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	set, scanID, err := loadScan(db, args)
	if err != nil {
		return explainScanError(err)
	}

	state, err := buildFromScan(db, set, scanID)
	if err != nil {
		return err
	}

	out := buildOutput
	if out == "" {
		out = artifact.StatePath(cfg.DataDir)
	}
	if err := artifact.WriteState(out, state); err != nil {
		return err
	}

	fmt.Println(renderNet(state))
	fmt.Printf("State: %s\n", state)
	if state.IsSolved() {
		fmt.Println("The cube is already solved.")
	}
	fmt.Printf("Written to %s\n", out)
	fmt.Println("Next: gocube-vision solve")
	return nil
}

// explainBuildError adds what the user should do about a failed build.
func explainBuildError(err error) error {
	var cce *gocube.ColorCountError
	var ace *gocube.AmbiguousCentersError
	var ise *gocube.IncompleteScanError

	switch {
	case errors.As(err, &cce):
		var lines []string
		for _, c := range cce.Off() {
			lines = append(lines, fmt.Sprintf("  %s (%s center): %d stickers", c, c.Nominal(), cce.Counts[c]))
		}
		return fmt.Errorf("%w\n%s\nRescan the faces with those colors in better light", err, strings.Join(lines, "\n"))
	case errors.As(err, &ace):
		return fmt.Errorf("%w\nTwo centers look alike; rescan those faces", err)
	case errors.As(err, &ise):
		return explainScanError(err)
	}
	return err
}

var netColors = map[gocube.Color]lipgloss.Color{
	gocube.ColorU: lipgloss.Color("15"),
	gocube.ColorR: lipgloss.Color("196"),
	gocube.ColorF: lipgloss.Color("40"),
	gocube.ColorD: lipgloss.Color("226"),
	gocube.ColorL: lipgloss.Color("208"),
	gocube.ColorB: lipgloss.Color("33"),
}

func sticker(c gocube.Color) string {
	return lipgloss.NewStyle().Foreground(netColors[c]).Render("■")
}

// swatch shows a sampled color as a block in its own RGB.
func swatch(c gocube.HSV) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██")
}

// renderNet draws the state as an unfolded cube:
//
//	  U
//	L F R B
//	  D
func renderNet(s gocube.State) string {
	faceRow := func(f gocube.Face, row int) string {
		stickers := s.Face(f)
		parts := make([]string, 3)
		for i := range parts {
			parts[i] = sticker(stickers[row*3+i])
		}
		return strings.Join(parts, " ")
	}

	pad := strings.Repeat(" ", 6)
	var lines []string
	for row := 0; row < 3; row++ {
		lines = append(lines, pad+faceRow(gocube.FaceU, row))
	}
	for row := 0; row < 3; row++ {
		lines = append(lines, strings.Join([]string{
			faceRow(gocube.FaceL, row),
			faceRow(gocube.FaceF, row),
			faceRow(gocube.FaceR, row),
			faceRow(gocube.FaceB, row),
		}, " "))
	}
	for row := 0; row < 3; row++ {
		lines = append(lines, pad+faceRow(gocube.FaceD, row))
	}
	return strings.Join(lines, "\n")
}
