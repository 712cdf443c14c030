package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gocube "github.com/SeamusWaldron/gocube_vision"
	"github.com/SeamusWaldron/gocube_vision/internal/artifact"
	"github.com/SeamusWaldron/gocube_vision/internal/sampler"
	"github.com/SeamusWaldron/gocube_vision/internal/storage"
)

var (
	scanDir    string
	scanOutput string
	scanFrames = framePaths()
)

func framePaths() map[gocube.Face]*string {
	m := make(map[gocube.Face]*string, len(gocube.FaceOrder))
	for _, f := range gocube.FaceOrder {
		m[f] = new(string)
	}
	return m
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Sample the six faces from captured frames",
	Long: `Sample the nine sticker colors of every face from captured camera frames.

Each frame must show one face inside the centered scanning grid, with
F facing the camera and U on top for the side faces. Frames are read
from a directory (U.png, R.png, F.png, D.png, L.png, B.png; jpg, bmp and
webp also work) or given one by one.

Examples:
  gocube-vision scan --dir frames/
  gocube-vision scan --U u.jpg --R r.jpg --F f.jpg --D d.jpg --L l.jpg --B b.jpg`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd)
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Scan file (default: <data-dir>/cube_scan.json)")
}

// addScanFlags registers the frame source flags shared by scan and run.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&scanDir, "dir", "", "Directory holding one frame per face")
	for _, f := range gocube.FaceOrder {
		cmd.Flags().StringVar(scanFrames[f], string(f), "", fmt.Sprintf("Frame of the %s face", f))
	}
}

// sampleFrames samples the frames selected by the scan flags and records
// the result. It returns the scan set and its ID in the database.
func sampleFrames(db *storage.DB) (*gocube.ScanSet, string, error) {
	s := sampler.New(sampler.WithGridSize(cfg.GridSize), sampler.WithLogger(logger))

	paths := map[gocube.Face]string{}
	source := scanDir
	if scanDir != "" {
		found, err := sampler.FindFrames(scanDir)
		if err != nil {
			return nil, "", err
		}
		paths = found
	}
	var explicit []string
	for f, p := range scanFrames {
		if *p != "" {
			paths[f] = *p
			explicit = append(explicit, string(f))
		}
	}
	if source == "" {
		source = "frames:" + strings.Join(explicit, ",")
	}
	if len(paths) == 0 {
		return nil, "", errors.New("no frames given: use --dir or --U/--R/--F/--D/--L/--B")
	}

	set, err := s.SampleFiles(paths)
	if err != nil {
		return nil, "", err
	}

	scanID, err := storage.NewScanRepository(db).Create(set, source)
	if err != nil {
		return nil, "", err
	}
	logger.Info("scan recorded", zap.String("scan_id", scanID), zap.String("source", source))
	return set, scanID, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	set, scanID, err := sampleFrames(db)
	if err != nil {
		return explainScanError(err)
	}

	out := scanOutput
	if out == "" {
		out = artifact.ScanPath(cfg.DataDir)
	}
	if err := artifact.WriteScan(out, set); err != nil {
		return err
	}

	fmt.Printf("Scan: %s\n", scanID)
	fmt.Println()
	printCenters(set)
	fmt.Println()
	fmt.Printf("Samples written to %s\n", out)
	fmt.Println("Next: gocube-vision build")
	return nil
}

func printCenters(set *gocube.ScanSet) {
	fmt.Println("Centers:")
	for _, f := range gocube.FaceOrder {
		fs, ok := set.Get(f)
		if !ok {
			continue
		}
		c := fs.Center()
		fmt.Printf("  %s  %s  %s\n", f, swatch(c), c)
	}
}

func explainScanError(err error) error {
	var ise *gocube.IncompleteScanError
	if errors.As(err, &ise) {
		var faces []string
		for _, f := range ise.Missing {
			faces = append(faces, string(f))
		}
		return fmt.Errorf("%w\nCapture a frame for: %s", err, strings.Join(faces, ", "))
	}
	if errors.Is(err, sampler.ErrCapture) {
		return fmt.Errorf("%w\nCheck the frame files and capture them again", err)
	}
	return err
}
