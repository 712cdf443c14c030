package gocube

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the gocube package.
var (
	// Scan and state building errors
	ErrIncompleteScan           = errors.New("gocube: incomplete scan")
	ErrInvalidColorDistribution = errors.New("gocube: invalid color distribution")
	ErrAmbiguousCenters         = errors.New("gocube: ambiguous centers")

	// Solver errors
	ErrMalformedState  = errors.New("gocube: malformed state")
	ErrUnsolvableState = errors.New("gocube: unsolvable state")
	ErrSolverTimeout   = errors.New("gocube: solver timed out")

	// Parsing errors
	ErrInvalidNotation = errors.New("gocube: invalid move notation")

	// Guidance errors
	ErrNoSolution = errors.New("gocube: no solution")
)

// IncompleteScanError lists the faces a ScanSet is still missing.
type IncompleteScanError struct {
	Missing []Face
}

func (e *IncompleteScanError) Error() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("%v: missing faces %s", ErrIncompleteScan, strings.Join(names, ","))
}

func (e *IncompleteScanError) Unwrap() error { return ErrIncompleteScan }

// ColorCountError reports the observed per-color facelet counts when at
// least one color does not occur exactly 9 times.
type ColorCountError struct {
	Counts [6]int // indexed like FaceOrder
}

func (e *ColorCountError) Error() string {
	parts := make([]string, 0, 6)
	for i, f := range FaceOrder {
		parts = append(parts, fmt.Sprintf("%s=%d", f, e.Counts[i]))
	}
	return fmt.Sprintf("%v: expected 9 of each color, got %s", ErrInvalidColorDistribution, strings.Join(parts, " "))
}

func (e *ColorCountError) Unwrap() error { return ErrInvalidColorDistribution }

// Off returns the colors whose count is not 9.
func (e *ColorCountError) Off() []Color {
	var out []Color
	for i, n := range e.Counts {
		if n != 9 {
			out = append(out, Color(i))
		}
	}
	return out
}

// AmbiguousCentersError names the faces whose centers classified to a color
// already claimed by another center.
type AmbiguousCentersError struct {
	Centers [6]Color // classified color of each center, FaceOrder
}

func (e *AmbiguousCentersError) Error() string {
	var dup []string
	seen := map[Color]Face{}
	for i, c := range e.Centers {
		if prev, ok := seen[c]; ok {
			dup = append(dup, fmt.Sprintf("%s=%s", FaceOrder[i], prev))
			continue
		}
		seen[c] = FaceOrder[i]
	}
	return fmt.Sprintf("%v: center matches another center (%s)", ErrAmbiguousCenters, strings.Join(dup, " "))
}

func (e *AmbiguousCentersError) Unwrap() error { return ErrAmbiguousCenters }

// MalformedStateError carries the offending state string.
type MalformedStateError struct {
	State  string
	Reason string
}

func (e *MalformedStateError) Error() string {
	return fmt.Sprintf("%v: %s: %q", ErrMalformedState, e.Reason, e.State)
}

func (e *MalformedStateError) Unwrap() error { return ErrMalformedState }
