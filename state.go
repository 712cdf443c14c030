package gocube

import "fmt"

// StateLen is the number of facelets in a State.
const StateLen = 54

// SolvedState is the facelet string of a solved cube.
const SolvedState = "UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB"

// State is a full cube in solver facelet order: U1..U9, R1..R9, F1..F9,
// D1..D9, L1..L9, B1..B9, each face row-major.
type State [StateLen]Color

// String renders the 54-letter facelet string.
func (s State) String() string {
	var b [StateLen]byte
	for i, c := range s {
		b[i] = c.String()[0]
	}
	return string(b[:])
}

// Face returns the nine facelets of one face.
func (s State) Face(f Face) [9]Color {
	var out [9]Color
	if i := f.Index(); i >= 0 {
		copy(out[:], s[i*9:i*9+9])
	}
	return out
}

// Centers returns the six center facelets in FaceOrder.
func (s State) Centers() [6]Color {
	var out [6]Color
	for i := range FaceOrder {
		out[i] = s[i*9+CenterIndex]
	}
	return out
}

// Counts returns how often each color occurs, indexed like FaceOrder.
func (s State) Counts() [6]int {
	var counts [6]int
	for _, c := range s {
		if c.Valid() {
			counts[c]++
		}
	}
	return counts
}

// IsSolved reports whether every face shows its own center color.
func (s State) IsSolved() bool {
	return CubeFromState(s).IsSolved()
}

// ParseState parses a 54-letter facelet string over URFDLB.
func ParseState(str string) (State, error) {
	var s State
	if len(str) != StateLen {
		return s, &MalformedStateError{
			State:  str,
			Reason: fmt.Sprintf("expected %d characters, got %d", StateLen, len(str)),
		}
	}
	for i := 0; i < len(str); i++ {
		c, ok := ParseColor(str[i])
		if !ok {
			return s, &MalformedStateError{
				State:  str,
				Reason: fmt.Sprintf("invalid character %q at position %d", str[i], i),
			}
		}
		s[i] = c
	}
	return s, nil
}

// BuildState classifies every sample of a complete scan against the six
// scanned centers and assembles a validated State.
func BuildState(set *ScanSet) (State, error) {
	classifier, err := FitClassifier(set)
	if err != nil {
		return State{}, err
	}
	return BuildStateWith(classifier, set)
}

// BuildStateWith is BuildState with an already fitted classifier.
func BuildStateWith(classifier *Classifier, set *ScanSet) (State, error) {
	if missing := set.Missing(); len(missing) > 0 {
		return State{}, &IncompleteScanError{Missing: missing}
	}

	faces := make(map[Face][9]Color, 6)
	for _, f := range FaceOrder {
		fs, _ := set.Get(f)
		faces[f] = classifier.ClassifyFace(fs)
	}
	return AssembleState(faces)
}

// AssembleState lays out classified faces in facelet order and validates
// them. Input colors are plain labels; in the result every facelet is
// renamed after the face whose center carries that label. Centers must be
// pairwise distinct and every color must occur exactly nine times.
// Piece-level legality is left to the solver.
func AssembleState(faces map[Face][9]Color) (State, error) {
	var s State

	var missing []Face
	for i, f := range FaceOrder {
		colors, ok := faces[f]
		if !ok {
			missing = append(missing, f)
			continue
		}
		for j, c := range colors {
			if !c.Valid() {
				return State{}, fmt.Errorf("gocube: invalid color %d on face %s", c, f)
			}
			s[i*9+j] = c
		}
	}
	if len(missing) > 0 {
		return State{}, &IncompleteScanError{Missing: missing}
	}

	// Centers first: the letter encoding is undefined without them.
	centers := s.Centers()
	var seen [6]bool
	for _, c := range centers {
		if seen[c] {
			return State{}, &AmbiguousCentersError{Centers: centers}
		}
		seen[c] = true
	}

	// Relabel so each facelet carries the letter of the face whose center
	// it matches. Identity when the colors came from BuildState.
	var relabel [6]Color
	for i, c := range centers {
		relabel[c] = Color(i)
	}
	for i, c := range s {
		s[i] = relabel[c]
	}

	counts := s.Counts()
	for _, n := range counts {
		if n != 9 {
			return State{}, &ColorCountError{Counts: counts}
		}
	}

	return s, nil
}
