package gocube

import "fmt"

// Corner and edge facelet positions in solver order. cornerFacelets[i] lists
// the facelets of corner slot i starting with its U or D sticker; the slots
// are URF UFL ULB UBR DFR DLF DBL DRB.
var cornerFacelets = [8][3]int{
	{8, 9, 20},   // URF
	{6, 18, 38},  // UFL
	{0, 36, 47},  // ULB
	{2, 45, 11},  // UBR
	{29, 26, 15}, // DFR
	{27, 44, 24}, // DLF
	{33, 53, 42}, // DBL
	{35, 17, 51}, // DRB
}

var cornerColors = [8][3]Color{
	{ColorU, ColorR, ColorF},
	{ColorU, ColorF, ColorL},
	{ColorU, ColorL, ColorB},
	{ColorU, ColorB, ColorR},
	{ColorD, ColorF, ColorR},
	{ColorD, ColorL, ColorF},
	{ColorD, ColorB, ColorL},
	{ColorD, ColorR, ColorB},
}

// Edge slots UR UF UL UB DR DF DL DB FR FL BL BR.
var edgeFacelets = [12][2]int{
	{5, 10},  // UR
	{7, 19},  // UF
	{3, 37},  // UL
	{1, 46},  // UB
	{32, 16}, // DR
	{28, 25}, // DF
	{30, 43}, // DL
	{34, 52}, // DB
	{23, 12}, // FR
	{21, 41}, // FL
	{50, 39}, // BL
	{48, 14}, // BR
}

var edgeColors = [12][2]Color{
	{ColorU, ColorR},
	{ColorU, ColorF},
	{ColorU, ColorL},
	{ColorU, ColorB},
	{ColorD, ColorR},
	{ColorD, ColorF},
	{ColorD, ColorL},
	{ColorD, ColorB},
	{ColorF, ColorR},
	{ColorF, ColorL},
	{ColorB, ColorL},
	{ColorB, ColorR},
}

// pieces is the cubie-level view of a facelet state: which piece sits in
// each slot and how it is twisted or flipped.
type pieces struct {
	cp [8]int
	co [8]int
	ep [12]int
	eo [12]int
}

// toPieces reads the pieces from facelets. It fails when a slot holds a
// color combination that no real piece has.
func toPieces(s *State) (pieces, error) {
	var p pieces

	for i, slot := range cornerFacelets {
		ori := -1
		for o := 0; o < 3; o++ {
			if c := s[slot[o]]; c == ColorU || c == ColorD {
				ori = o
				break
			}
		}
		if ori < 0 {
			return p, fmt.Errorf("corner %d has no U or D sticker", i)
		}

		c1 := s[slot[(ori+1)%3]]
		c2 := s[slot[(ori+2)%3]]
		found := false
		for j, colors := range cornerColors {
			if colors[0] == s[slot[ori]] && colors[1] == c1 && colors[2] == c2 {
				p.cp[i] = j
				p.co[i] = ori
				found = true
				break
			}
		}
		if !found {
			return p, fmt.Errorf("corner %d colors %s%s%s match no piece", i, s[slot[ori]], c1, c2)
		}
	}

	for i, slot := range edgeFacelets {
		a, b := s[slot[0]], s[slot[1]]
		found := false
		for j, colors := range edgeColors {
			if colors[0] == a && colors[1] == b {
				p.ep[i], p.eo[i] = j, 0
				found = true
				break
			}
			if colors[0] == b && colors[1] == a {
				p.ep[i], p.eo[i] = j, 1
				found = true
				break
			}
		}
		if !found {
			return p, fmt.Errorf("edge %d colors %s%s match no piece", i, a, b)
		}
	}

	return p, nil
}

// verify checks that the pieces form a reachable cube: every piece exactly
// once, total twist and flip zero, equal corner and edge permutation parity.
func (p *pieces) verify() error {
	var cornerSeen [8]bool
	for _, j := range p.cp {
		if cornerSeen[j] {
			return fmt.Errorf("corner piece %d appears twice", j)
		}
		cornerSeen[j] = true
	}

	var edgeSeen [12]bool
	for _, j := range p.ep {
		if edgeSeen[j] {
			return fmt.Errorf("edge piece %d appears twice", j)
		}
		edgeSeen[j] = true
	}

	twist := 0
	for _, o := range p.co {
		twist += o
	}
	if twist%3 != 0 {
		return fmt.Errorf("corner twist")
	}

	flip := 0
	for _, o := range p.eo {
		flip += o
	}
	if flip%2 != 0 {
		return fmt.Errorf("edge flip")
	}

	if parity(p.cp[:]) != parity(p.ep[:]) {
		return fmt.Errorf("permutation parity")
	}

	return nil
}

// parity returns 1 for an odd permutation, 0 for even.
func parity(perm []int) int {
	n := 0
	for i := 0; i < len(perm); i++ {
		for j := i + 1; j < len(perm); j++ {
			if perm[i] > perm[j] {
				n++
			}
		}
	}
	return n % 2
}

// Verify reports whether the state is a reachable configuration of a real
// cube. The returned error wraps ErrUnsolvableState.
func (s State) Verify() error {
	for i, f := range FaceOrder {
		if c := s[i*9+CenterIndex]; c != ColorOf(f) {
			return fmt.Errorf("%w: center of %s is %s", ErrUnsolvableState, f, c)
		}
	}

	p, err := toPieces(&s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsolvableState, err)
	}
	if err := p.verify(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsolvableState, err)
	}
	return nil
}

// misplaced counts corner and edge pieces not home and correctly oriented.
func (c *Cube) misplaced() (corners, edges int) {
	f := &c.Facelets
	for i, slot := range cornerFacelets {
		if f[slot[0]] != cornerColors[i][0] || f[slot[1]] != cornerColors[i][1] || f[slot[2]] != cornerColors[i][2] {
			corners++
		}
	}
	for i, slot := range edgeFacelets {
		if f[slot[0]] != edgeColors[i][0] || f[slot[1]] != edgeColors[i][1] {
			edges++
		}
	}
	return corners, edges
}
