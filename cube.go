package gocube

import "strings"

// Cube is a 3x3 facelet model in solver order: 54 facelets, nine per face,
// faces in FaceOrder (U R F D L B). Each face is indexed as:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// looking at the face from outside, with U's bottom row and D's top row
// touching F. The center (index 4) never moves.
type Cube struct {
	Facelets [54]Color
}

// NewCube creates a solved cube.
func NewCube() *Cube {
	c := &Cube{}
	for i := range c.Facelets {
		c.Facelets[i] = Color(i / 9)
	}
	return c
}

// CubeFromState creates a cube holding the given facelets.
func CubeFromState(s State) *Cube {
	return &Cube{Facelets: s}
}

// State returns the facelets as a State.
func (c *Cube) State() State {
	return State(c.Facelets)
}

// Clone creates a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	clone := *c
	return &clone
}

// IsSolved returns true if every face shows a single color.
func (c *Cube) IsSolved() bool {
	for f := 0; f < 6; f++ {
		center := c.Facelets[f*9+CenterIndex]
		for i := 0; i < 9; i++ {
			if c.Facelets[f*9+i] != center {
				return false
			}
		}
	}
	return true
}

// ApplyMove applies a Move to the cube.
func (c *Cube) ApplyMove(m Move) {
	idx := m.Face.Index()
	if idx < 0 {
		return
	}
	for i := 0; i < quarters(m.Turn); i++ {
		c.quarter(idx)
	}
}

// ApplyMoves applies a sequence of moves to the cube.
func (c *Cube) ApplyMoves(moves []Move) {
	for _, m := range moves {
		c.ApplyMove(m)
	}
}

// quarter applies one clockwise quarter turn of the face at FaceOrder[face].
func (c *Cube) quarter(face int) {
	perm := &quarterTurns[face]
	var next [54]Color
	for i, to := range perm {
		next[to] = c.Facelets[i]
	}
	c.Facelets = next
}

// String returns the cube as an unfolded net:
//
//	      U
//	L F R B
//	      D
func (c *Cube) String() string {
	var b strings.Builder
	row := func(face Face, r int) {
		base := face.Index() * 9
		for col := 0; col < 3; col++ {
			b.WriteString(c.Facelets[base+r*3+col].String())
			b.WriteByte(' ')
		}
	}

	for r := 0; r < 3; r++ {
		b.WriteString("      ")
		row(FaceU, r)
		b.WriteByte('\n')
	}
	for r := 0; r < 3; r++ {
		for _, f := range []Face{FaceL, FaceF, FaceR, FaceB} {
			row(f, r)
		}
		b.WriteByte('\n')
	}
	for r := 0; r < 3; r++ {
		b.WriteString("      ")
		row(FaceD, r)
		b.WriteByte('\n')
	}
	return b.String()
}

// quarterTurns[f][i] is where facelet i ends up after a clockwise quarter
// turn of face f.
var quarterTurns = buildQuarterTurns()

type vec3 [3]int

func (a vec3) dot(b vec3) int {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func (a vec3) cross(b vec3) vec3 {
	return vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// rotateCW rotates v a quarter turn clockwise as seen looking down axis k
// toward the origin: v' = -(k x v) + k(k.v).
func rotateCW(v, k vec3) vec3 {
	x := k.cross(v)
	d := k.dot(v)
	return vec3{-x[0] + k[0]*d, -x[1] + k[1]*d, -x[2] + k[2]*d}
}

// sticker is a facelet located on the cube: x right, y up, z toward F.
type sticker struct {
	pos    vec3
	normal vec3
}

// faceNormals is the outward normal of each face in FaceOrder.
var faceNormals = [6]vec3{
	{0, 1, 0},  // U
	{1, 0, 0},  // R
	{0, 0, 1},  // F
	{0, -1, 0}, // D
	{-1, 0, 0}, // L
	{0, 0, -1}, // B
}

// faceletSticker places facelet (face, r, c) in space.
func faceletSticker(face, r, c int) sticker {
	var p vec3
	switch FaceOrder[face] {
	case FaceU:
		p = vec3{c - 1, 1, r - 1}
	case FaceR:
		p = vec3{1, 1 - r, 1 - c}
	case FaceF:
		p = vec3{c - 1, 1 - r, 1}
	case FaceD:
		p = vec3{c - 1, -1, 1 - r}
	case FaceL:
		p = vec3{-1, 1 - r, c - 1}
	case FaceB:
		p = vec3{1 - c, 1 - r, -1}
	}
	return sticker{pos: p, normal: faceNormals[face]}
}

func buildQuarterTurns() [6][54]int {
	var stickers [54]sticker
	lookup := make(map[sticker]int, 54)
	for f := 0; f < 6; f++ {
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				i := f*9 + r*3 + c
				stickers[i] = faceletSticker(f, r, c)
				lookup[stickers[i]] = i
			}
		}
	}

	var perms [6][54]int
	for f := 0; f < 6; f++ {
		axis := faceNormals[f]
		for i, s := range stickers {
			if s.pos.dot(axis) != 1 {
				perms[f][i] = i
				continue
			}
			moved := sticker{pos: rotateCW(s.pos, axis), normal: rotateCW(s.normal, axis)}
			perms[f][i] = lookup[moved]
		}
	}
	return perms
}
