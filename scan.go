package gocube

import (
	"encoding/json"
	"fmt"
)

// CenterIndex is the position of the center facelet in a row-major face.
const CenterIndex = 4

// FaceScan holds the nine samples of one face in row-major order:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// Index 4 is the center and defines the face's own color.
type FaceScan [9]HSV

// Center returns the center sample.
func (fs FaceScan) Center() HSV {
	return fs[CenterIndex]
}

// ScanSet collects one FaceScan per face. It is filled incrementally while
// faces are captured and is complete once all six faces are present.
type ScanSet struct {
	faces map[Face]FaceScan
}

// NewScanSet returns an empty scan set.
func NewScanSet() *ScanSet {
	return &ScanSet{faces: make(map[Face]FaceScan, 6)}
}

// Add records (or replaces) the scan of a face.
func (s *ScanSet) Add(face Face, scan FaceScan) error {
	if !face.Valid() {
		return fmt.Errorf("gocube: unknown face %q", face)
	}
	if s.faces == nil {
		s.faces = make(map[Face]FaceScan, 6)
	}
	s.faces[face] = scan
	return nil
}

// Get returns the scan of a face.
func (s *ScanSet) Get(face Face) (FaceScan, bool) {
	fs, ok := s.faces[face]
	return fs, ok
}

// Len returns the number of faces scanned so far.
func (s *ScanSet) Len() int {
	return len(s.faces)
}

// Missing returns the faces not yet scanned, in FaceOrder.
func (s *ScanSet) Missing() []Face {
	var missing []Face
	for _, f := range FaceOrder {
		if _, ok := s.faces[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether all six faces are present.
func (s *ScanSet) Complete() bool {
	return len(s.Missing()) == 0
}

// Clone returns an independent copy.
func (s *ScanSet) Clone() *ScanSet {
	out := NewScanSet()
	for f, fs := range s.faces {
		out.faces[f] = fs
	}
	return out
}

// MarshalJSON encodes the set as {"U": [[h,s,v] x9], ...}.
func (s *ScanSet) MarshalJSON() ([]byte, error) {
	m := make(map[string][9]HSV, len(s.faces))
	for f, fs := range s.faces {
		m[string(f)] = fs
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the {"U": [[h,s,v] x9], ...} shape. Every face
// present must carry exactly nine samples.
func (s *ScanSet) UnmarshalJSON(data []byte) error {
	var m map[string][]HSV
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	faces := make(map[Face]FaceScan, len(m))
	for key, samples := range m {
		face := Face(key)
		if !face.Valid() {
			return fmt.Errorf("gocube: unknown face %q in scan", key)
		}
		if len(samples) != 9 {
			return fmt.Errorf("gocube: face %s must have exactly 9 samples, got %d", key, len(samples))
		}
		var fs FaceScan
		copy(fs[:], samples)
		faces[face] = fs
	}

	s.faces = faces
	return nil
}
