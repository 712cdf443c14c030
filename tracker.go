package gocube

// Tracker follows the physical cube while the user performs moves, starting
// from a scanned state.
type Tracker struct {
	start   State
	cube    *Cube
	applied []Move
}

// NewTracker creates a tracker positioned at the given state.
func NewTracker(start State) *Tracker {
	return &Tracker{
		start: start,
		cube:  CubeFromState(start),
	}
}

// ApplyMove records a performed move.
func (t *Tracker) ApplyMove(m Move) {
	t.cube.ApplyMove(m)
	t.applied = append(t.applied, m)
}

// ApplyMoves records multiple moves.
func (t *Tracker) ApplyMoves(moves []Move) {
	for _, m := range moves {
		t.ApplyMove(m)
	}
}

// Moves returns the moves applied since the start state.
func (t *Tracker) Moves() []Move {
	out := make([]Move, len(t.applied))
	copy(out, t.applied)
	return out
}

// Start returns the state tracking began from.
func (t *Tracker) Start() State {
	return t.start
}

// State returns the expected current state of the cube.
func (t *Tracker) State() State {
	return t.cube.State()
}

// IsSolved returns true if the tracked cube is solved.
func (t *Tracker) IsSolved() bool {
	return t.cube.IsSolved()
}

// CubeString returns the tracked cube as an unfolded net.
func (t *Tracker) CubeString() string {
	return t.cube.String()
}
