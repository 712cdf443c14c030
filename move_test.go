package gocube

import (
	"errors"
	"testing"
)

func TestParseMove(t *testing.T) {
	tests := []struct {
		input string
		want  Move
	}{
		{"R", R},
		{"R'", RPrime},
		{"R`", RPrime},
		{"R3", RPrime},
		{"R2", R2},
		{"R2'", R2},
		{"U1", U},
		{"f", F},
		{" D2 ", D2},
		{"B'", BPrime},
	}

	for _, tt := range tests {
		got, err := ParseMove(tt.input)
		if err != nil {
			t.Errorf("ParseMove(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMove(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseMove_Invalid(t *testing.T) {
	for _, input := range []string{"", "X", "R4", "Rw", "M", "R''"} {
		if _, err := ParseMove(input); !errors.Is(err, ErrInvalidNotation) {
			t.Errorf("ParseMove(%q) error = %v, want ErrInvalidNotation", input, err)
		}
	}
}

func TestParseSolution(t *testing.T) {
	sol, err := ParseSolution("R U R' U'")
	if err != nil {
		t.Fatalf("ParseSolution error = %v", err)
	}
	if sol.Len() != 4 || sol.String() != "R U R' U'" {
		t.Errorf("ParseSolution = %v", sol)
	}

	empty, err := ParseSolution("  ")
	if err != nil {
		t.Fatalf("ParseSolution(blank) error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("blank input should give an empty, non-nil solution, got %#v", empty)
	}

	if _, err := ParseSolution("R U Q R'"); !errors.Is(err, ErrInvalidNotation) {
		t.Errorf("ParseSolution with bad token: error = %v, want ErrInvalidNotation", err)
	}
}

func TestMoveInverse(t *testing.T) {
	tests := []struct {
		m, want Move
	}{
		{R, RPrime},
		{RPrime, R},
		{R2, R2},
	}
	for _, tt := range tests {
		if got := tt.m.Inverse(); got != tt.want {
			t.Errorf("%v.Inverse() = %v, want %v", tt.m, got, tt.want)
		}
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"R R", "R2"},
		{"R R'", ""},
		{"R2 R", "R'"},
		{"R2 R2", ""},
		{"R L L' R", "R2"},
		{"U D U", "U D U"},
		{"F R U' U R' F'", ""},
		{"R U R' U'", "R U R' U'"},
	}

	for _, tt := range tests {
		moves, err := ParseSolution(tt.input)
		if err != nil {
			t.Fatalf("ParseSolution(%q): %v", tt.input, err)
		}
		got := Simplify(moves)
		if got == nil {
			t.Errorf("Simplify(%q) returned nil", tt.input)
		}
		if got.String() != tt.want {
			t.Errorf("Simplify(%q) = %q, want %q", tt.input, got.String(), tt.want)
		}
	}
}

func TestFaceOpposite(t *testing.T) {
	for _, f := range FaceOrder {
		if f.Opposite().Opposite() != f || f.Opposite() == f {
			t.Errorf("Opposite(%s) = %s", f, f.Opposite())
		}
	}
}
