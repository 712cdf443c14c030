// Package artifact reads and writes the intermediate files of the pipeline:
// the sampled scan set and the built cube state.
package artifact

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gocube "github.com/SeamusWaldron/gocube_vision"
)

// File names inside the data directory.
const (
	ScanFile  = "cube_scan.json"
	StateFile = "cube_state.txt"
)

// ScanPath returns the scan file path within dir.
func ScanPath(dir string) string {
	return filepath.Join(dir, ScanFile)
}

// StatePath returns the state file path within dir.
func StatePath(dir string) string {
	return filepath.Join(dir, StateFile)
}

// WriteScan writes a scan set as indented JSON.
func WriteScan(path string, set *gocube.ScanSet) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scan: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// ReadScan reads a scan set written by WriteScan.
func ReadScan(path string) (*gocube.ScanSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan: %w", err)
	}
	set := gocube.NewScanSet()
	if err := json.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("failed to parse scan %s: %w", path, err)
	}
	return set, nil
}

// WriteState writes the 54-letter state string on a single line.
func WriteState(path string, s gocube.State) error {
	return writeFile(path, []byte(s.String()+"\n"))
}

// ReadState reads the first non-empty line of a state file and parses it.
func ReadState(path string) (gocube.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocube.State{}, fmt.Errorf("failed to read state: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		return gocube.ParseState(line)
	}
	if err := sc.Err(); err != nil {
		return gocube.State{}, fmt.Errorf("failed to read state: %w", err)
	}
	return gocube.ParseState("")
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
