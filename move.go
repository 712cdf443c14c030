package gocube

import (
	"fmt"
	"strings"
)

// Face represents a cube face in standard notation.
type Face string

const (
	FaceU Face = "U" // Up
	FaceR Face = "R" // Right
	FaceF Face = "F" // Front
	FaceD Face = "D" // Down
	FaceL Face = "L" // Left
	FaceB Face = "B" // Back
)

// FaceOrder is the fixed face order used for scanning, for classifier
// references and for the facelet layout of a State.
var FaceOrder = [6]Face{FaceU, FaceR, FaceF, FaceD, FaceL, FaceB}

// Index returns the position of the face in FaceOrder, or -1.
func (f Face) Index() int {
	switch f {
	case FaceU:
		return 0
	case FaceR:
		return 1
	case FaceF:
		return 2
	case FaceD:
		return 3
	case FaceL:
		return 4
	case FaceB:
		return 5
	default:
		return -1
	}
}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f.Index() >= 0
}

// Opposite returns the face on the other side of the cube.
func (f Face) Opposite() Face {
	switch f {
	case FaceU:
		return FaceD
	case FaceD:
		return FaceU
	case FaceR:
		return FaceL
	case FaceL:
		return FaceR
	case FaceF:
		return FaceB
	case FaceB:
		return FaceF
	default:
		return f
	}
}

// Turn represents the direction and magnitude of a face turn.
type Turn int

const (
	CW     Turn = 1  // Clockwise (90 degrees)
	CCW    Turn = -1 // Counter-clockwise (90 degrees)
	Double Turn = 2  // Half turn (180 degrees)
)

// Valid reports whether t is one of CW, CCW or Double.
func (t Turn) Valid() bool {
	return t == CW || t == CCW || t == Double
}

// Move is one token of a solution: a face and a turn.
type Move struct {
	Face Face
	Turn Turn
}

// Notation returns the standard cube notation string for this move.
// Examples: R, R', R2, U, U', U2
func (m Move) Notation() string {
	suffix := ""
	switch m.Turn {
	case CCW:
		suffix = "'"
	case Double:
		suffix = "2"
	}
	return string(m.Face) + suffix
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Valid reports whether both face and turn are recognized.
func (m Move) Valid() bool {
	return m.Face.Valid() && m.Turn.Valid()
}

// Inverse returns the inverse of this move.
// R becomes R', R' becomes R, R2 stays R2.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case CW:
		inv.Turn = CCW
	case CCW:
		inv.Turn = CW
	}
	return inv
}

// Merge combines two same-face moves. ok is false when the faces differ;
// when they cancel completely, ok is true and cancelled is true.
func (m Move) Merge(other Move) (merged Move, cancelled bool, ok bool) {
	if m.Face != other.Face {
		return Move{}, false, false
	}

	// Quarter turns modulo 4: CW=1, Double=2, CCW=3
	q := (quarters(m.Turn) + quarters(other.Turn)) % 4
	switch q {
	case 0:
		return Move{}, true, true
	case 1:
		return Move{Face: m.Face, Turn: CW}, false, true
	case 2:
		return Move{Face: m.Face, Turn: Double}, false, true
	default:
		return Move{Face: m.Face, Turn: CCW}, false, true
	}
}

func quarters(t Turn) int {
	switch t {
	case CW:
		return 1
	case Double:
		return 2
	case CCW:
		return 3
	default:
		return 0
	}
}

// ParseMove parses a standard notation string into a Move.
// Examples: R, R', R2, U, U', U2
// Returns an error if the notation is invalid.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return Move{}, ErrInvalidNotation
	}

	var face Face
	switch s[0] {
	case 'U', 'u':
		face = FaceU
	case 'R', 'r':
		face = FaceR
	case 'F', 'f':
		face = FaceF
	case 'D', 'd':
		face = FaceD
	case 'L', 'l':
		face = FaceL
	case 'B', 'b':
		face = FaceB
	default:
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
	}

	turn := CW
	if len(s) > 1 {
		switch s[1:] {
		case "'", "`", "3":
			turn = CCW
		case "2", "2'", "2`":
			turn = Double
		case "1":
			turn = CW
		default:
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidNotation, s)
		}
	}

	return Move{Face: face, Turn: turn}, nil
}

// Solution is an ordered move sequence. An empty, non-nil Solution means the
// cube is already solved; a nil Solution means there is no solution at all.
type Solution []Move

// ParseSolution parses a whitespace-separated move sequence strictly: any
// token that is not valid notation fails the whole parse. An empty string
// yields an empty, non-nil Solution.
func ParseSolution(s string) (Solution, error) {
	parts := strings.Fields(s)
	moves := make(Solution, 0, len(parts))

	for i, part := range parts {
		move, err := ParseMove(part)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i+1, err)
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// String formats the solution as a space-separated notation string.
func (s Solution) String() string {
	return FormatMoves(s)
}

// Len returns the number of moves.
func (s Solution) Len() int {
	return len(s)
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// Simplify merges adjacent same-face moves until no merge applies:
// R R becomes R2, R R' disappears, R2 R becomes R'.
// The result is never nil.
func Simplify(moves []Move) Solution {
	out := make(Solution, 0, len(moves))
	for _, m := range moves {
		if n := len(out); n > 0 {
			if merged, cancelled, ok := out[n-1].Merge(m); ok {
				out = out[:n-1]
				if !cancelled {
					out = append(out, merged)
				}
				continue
			}
		}
		out = append(out, m)
	}
	return out
}
