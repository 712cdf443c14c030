package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	gocube "github.com/SeamusWaldron/gocube_vision"
	"github.com/SeamusWaldron/gocube_vision/internal/overlay"
	"github.com/SeamusWaldron/gocube_vision/internal/storage"
)

var (
	exportSolutionID string
	exportFormat     string
	exportOutput     string
	exportLast       bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export solution data",
	Long:  `Export recorded solutions in various formats.`,
}

var exportSolutionCmd = &cobra.Command{
	Use:   "solution",
	Short: "Export the moves of a solution",
	Long: `Export the move sequence of a recorded solution as text, as JSON with the
overlay cue of every step, or as overlay frames.

Examples:
  gocube-vision export solution --last
  gocube-vision export solution --id <solution_id> --format json
  gocube-vision export solution --last --format png -o overlays/`,
	RunE: runExportSolution,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.AddCommand(exportSolutionCmd)
	exportSolutionCmd.Flags().StringVar(&exportSolutionID, "id", "", "Solution ID to export")
	exportSolutionCmd.Flags().BoolVar(&exportLast, "last", false, "Export the last successful solution")
	exportSolutionCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt, json, png)")
	exportSolutionCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, or directory for png (default: stdout)")
}

type stepJSON struct {
	Step      int    `json:"step"`
	Move      string `json:"move"`
	Face      string `json:"face"`
	Direction string `json:"direction"`
	Arrows    int    `json:"arrows"`
	Sweep     string `json:"sweep"`
}

type solutionJSON struct {
	SolutionID string     `json:"solution_id"`
	State      string     `json:"state"`
	Engine     string     `json:"engine"`
	Moves      string     `json:"moves"`
	Steps      []stepJSON `json:"steps"`
}

// instructions walks a session through the solution, one instruction per
// move.
func instructions(sol gocube.Solution) ([]gocube.Instruction, error) {
	session, err := gocube.NewSession(sol)
	if err != nil {
		return nil, err
	}
	var out []gocube.Instruction
	for {
		ins, ok := session.Instruction()
		if !ok {
			return out, nil
		}
		out = append(out, ins)
		session.Confirm()
	}
}

func runExportSolution(cmd *cobra.Command, args []string) error {
	if exportSolutionID == "" && !exportLast {
		return fmt.Errorf("specify --id or --last")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := storage.NewSolutionRepository(db)
	var rec *storage.Solution
	if exportLast {
		recent, err := repo.List(50)
		if err != nil {
			return fmt.Errorf("failed to get last solution: %w", err)
		}
		for i := range recent {
			if recent[i].Solved() {
				rec = &recent[i]
				break
			}
		}
		if rec == nil {
			return fmt.Errorf("no solutions found")
		}
	} else {
		rec, err = repo.Get(exportSolutionID)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("solution %s not found", exportSolutionID)
		}
	}

	sol, err := rec.Parsed()
	if err != nil {
		return err
	}
	steps, err := instructions(sol)
	if err != nil {
		return err
	}

	var output string
	switch strings.ToLower(exportFormat) {
	case "txt":
		output = sol.String()

	case "json":
		doc := solutionJSON{
			SolutionID: rec.SolutionID,
			State:      rec.State,
			Engine:     rec.Engine,
			Moves:      sol.String(),
			Steps:      []stepJSON{},
		}
		for _, ins := range steps {
			doc.Steps = append(doc.Steps, stepJSON{
				Step:      ins.Step,
				Move:      ins.Move.Notation(),
				Face:      string(ins.Face),
				Direction: ins.Direction.String(),
				Arrows:    ins.Cue.Arrows,
				Sweep:     ins.Cue.Sweep.String(),
			})
		}
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		output = string(data)

	case "png":
		if exportOutput == "" {
			return fmt.Errorf("png export needs an output directory (-o)")
		}
		r := overlay.New(overlay.WithGridSize(cfg.GridSize))
		for _, ins := range steps {
			if _, err := r.WriteFile(exportOutput, ins); err != nil {
				return err
			}
		}
		fmt.Printf("Exported %d overlay frames to %s\n", len(steps), exportOutput)
		return nil

	default:
		return fmt.Errorf("unknown format: %s (use txt, json or png)", exportFormat)
	}

	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Exported %d moves to %s\n", len(sol), exportOutput)
	return nil
}
