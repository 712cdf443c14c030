package gocube

// Direction is the rotation sense of a face turn, seen looking at the face.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

// String returns the direction name.
func (d Direction) String() string {
	if d == CounterClockwise {
		return "counter-clockwise"
	}
	return "clockwise"
}

// Sweep is the motion of the turning layer on screen, with F facing the
// camera and U on top.
type Sweep int

const (
	SweepLeft Sweep = iota
	SweepRight
	SweepUp
	SweepDown
	SweepCurlCW
	SweepCurlCCW
)

// String returns the sweep name.
func (s Sweep) String() string {
	switch s {
	case SweepLeft:
		return "left"
	case SweepRight:
		return "right"
	case SweepUp:
		return "up"
	case SweepDown:
		return "down"
	case SweepCurlCW:
		return "curl-cw"
	case SweepCurlCCW:
		return "curl-ccw"
	default:
		return "unknown"
	}
}

// Cue tells the overlay how to draw one move.
type Cue struct {
	Face      Face
	Direction Direction
	Arrows    int // 2 for double turns
	Sweep     Sweep
}

// cues maps every face and modifier to its cue. Doubles keep the clockwise
// direction and draw two arrows. B is seen through the cube, so its curl is
// mirrored.
var cues = map[Move]Cue{
	U:      {FaceU, Clockwise, 1, SweepLeft},
	UPrime: {FaceU, CounterClockwise, 1, SweepRight},
	U2:     {FaceU, Clockwise, 2, SweepLeft},

	R:      {FaceR, Clockwise, 1, SweepUp},
	RPrime: {FaceR, CounterClockwise, 1, SweepDown},
	R2:     {FaceR, Clockwise, 2, SweepUp},

	F:      {FaceF, Clockwise, 1, SweepCurlCW},
	FPrime: {FaceF, CounterClockwise, 1, SweepCurlCCW},
	F2:     {FaceF, Clockwise, 2, SweepCurlCW},

	D:      {FaceD, Clockwise, 1, SweepRight},
	DPrime: {FaceD, CounterClockwise, 1, SweepLeft},
	D2:     {FaceD, Clockwise, 2, SweepRight},

	L:      {FaceL, Clockwise, 1, SweepDown},
	LPrime: {FaceL, CounterClockwise, 1, SweepUp},
	L2:     {FaceL, Clockwise, 2, SweepDown},

	B:      {FaceB, Clockwise, 1, SweepCurlCCW},
	BPrime: {FaceB, CounterClockwise, 1, SweepCurlCW},
	B2:     {FaceB, Clockwise, 2, SweepCurlCCW},
}

// CueFor returns the overlay cue of a move. The zero Cue is returned for an
// invalid move.
func CueFor(m Move) Cue {
	return cues[m]
}

// Instruction is what the guidance overlay shows for the current step.
type Instruction struct {
	Move      Move
	Face      Face
	Direction Direction
	Step      int // 1-based
	Total     int
	Cue       Cue
}
