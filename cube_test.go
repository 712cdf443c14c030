package gocube

import (
	"errors"
	"testing"
)

func TestNewCubeIsSolved(t *testing.T) {
	c := NewCube()
	if !c.IsSolved() {
		t.Error("New cube should be solved")
	}
	if c.State().String() != SolvedState {
		t.Errorf("State() = %s, want %s", c.State(), SolvedState)
	}
}

func TestSingleMoveBreaksSolved(t *testing.T) {
	c := NewCube()
	c.ApplyMove(R)
	if c.IsSolved() {
		t.Error("Cube should not be solved after R move")
	}
}

func TestRRRR_ReturnsToSolved_AllFaces(t *testing.T) {
	for _, face := range FaceOrder {
		c := NewCube()
		m := Move{Face: face, Turn: CW}
		c.ApplyMoves([]Move{m, m, m, m})
		if !c.IsSolved() {
			t.Errorf("%v x 4 should return to solved", face)
			t.Log(c.String())
		}
	}
}

func TestMoveThenInverse_ReturnsToSolved(t *testing.T) {
	for _, m := range AllMoves {
		c := NewCube()
		c.ApplyMove(m)
		c.ApplyMove(m.Inverse())
		if !c.IsSolved() {
			t.Errorf("%s %s should return to solved", m, m.Inverse())
		}
	}
}

func TestR2R2_ReturnsToSolved(t *testing.T) {
	c := NewCube()
	c.ApplyMoves([]Move{R2, R2})
	if !c.IsSolved() {
		t.Error("R2 R2 should return to solved")
		t.Log(c.String())
	}
}

func TestSexyMove_6Times_ReturnsToSolved(t *testing.T) {
	// (R U R' U') x 6 = identity
	c := NewCube()
	for i := 0; i < 6; i++ {
		c.ApplyMoves(SexyMove)
	}
	if !c.IsSolved() {
		t.Error("Sexy move x 6 should return to solved")
		t.Log(c.String())
	}
}

func TestTPerm_Twice_ReturnsToSolved(t *testing.T) {
	c := NewCube()
	c.ApplyMoves(TPerm)
	if c.IsSolved() {
		t.Error("T-perm should change the cube")
	}
	c.ApplyMoves(TPerm)
	if !c.IsSolved() {
		t.Error("T-perm x 2 should return to solved")
		t.Log(c.String())
	}
}

func TestUMove_FaceletString(t *testing.T) {
	c := NewCube()
	c.ApplyMove(U)

	want := "UUUUUUUUU" + "BBBRRRRRR" + "RRRFFFFFF" + "DDDDDDDDD" + "FFFLLLLLL" + "LLLBBBBBB"
	if got := c.State().String(); got != want {
		t.Errorf("after U:\n got %s\nwant %s", got, want)
	}
}

func TestRMove_FrontColumnGoesUp(t *testing.T) {
	c := NewCube()
	c.ApplyMove(R)

	for _, i := range []int{2, 5, 8} {
		if c.Facelets[i] != ColorF {
			t.Errorf("U facelet %d = %s, want F", i, c.Facelets[i])
		}
	}
	// R column of F now shows D.
	for _, i := range []int{20, 23, 26} {
		if c.Facelets[i] != ColorD {
			t.Errorf("F facelet %d = %s, want D", i, c.Facelets[i])
		}
	}
}

func TestCenters_NeverMove(t *testing.T) {
	c := NewCube()
	c.ApplyMoves(TPerm)
	c.ApplyMoves([]Move{F, B2, LPrime, D, U2})
	for i, f := range FaceOrder {
		if got := c.Facelets[i*9+CenterIndex]; got != ColorOf(f) {
			t.Errorf("center of %s = %s", f, got)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := NewCube()
	clone := c.Clone()
	clone.ApplyMove(F)
	if !c.IsSolved() {
		t.Error("modifying the clone changed the original")
	}
}

func TestVerify_ReachableStates(t *testing.T) {
	scrambles := []string{
		"",
		"R",
		"R U R' U'",
		"F B2 L' D U2 R F' D2 B L",
		"R U R' U' R' F R2 U' R' U' R U R' F'",
	}

	for _, s := range scrambles {
		moves, err := ParseSolution(s)
		if err != nil {
			t.Fatalf("ParseSolution(%q): %v", s, err)
		}
		c := NewCube()
		c.ApplyMoves(moves)
		if err := c.State().Verify(); err != nil {
			t.Errorf("Verify after %q: %v", s, err)
		}
	}
}

func TestVerify_IllegalStates(t *testing.T) {
	solved, _ := ParseState(SolvedState)

	twisted := solved
	// URF corner stickers 8, 9, 20 rotated in place.
	twisted[8], twisted[9], twisted[20] = ColorF, ColorU, ColorR

	flipped := solved
	// UR edge stickers 5, 10 swapped.
	flipped[5], flipped[10] = ColorR, ColorU

	swapped := solved
	// UR and UF edges exchanged.
	swapped[10], swapped[19] = ColorF, ColorR

	badCenter := solved
	badCenter[4], badCenter[13] = ColorR, ColorU

	tests := []struct {
		name  string
		state State
	}{
		{"corner twist", twisted},
		{"edge flip", flipped},
		{"edge swap parity", swapped},
		{"moved center", badCenter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := tt.state.Counts()
			for i, n := range counts {
				if n != 9 {
					t.Fatalf("test state has %d of %s", n, FaceOrder[i])
				}
			}
			if err := tt.state.Verify(); !errors.Is(err, ErrUnsolvableState) {
				t.Errorf("Verify() = %v, want ErrUnsolvableState", err)
			}
		})
	}
}

func TestTracker(t *testing.T) {
	start := NewCube()
	start.ApplyMoves([]Move{R, U})

	tr := NewTracker(start.State())
	if tr.IsSolved() {
		t.Fatal("tracker should start scrambled")
	}

	tr.ApplyMoves([]Move{UPrime, RPrime})
	if !tr.IsSolved() {
		t.Error("U' R' should solve R U")
		t.Log(tr.CubeString())
	}
	if got := FormatMoves(tr.Moves()); got != "U' R'" {
		t.Errorf("Moves() = %q", got)
	}
	if tr.Start() != start.State() {
		t.Error("Start() should return the initial state")
	}
}
