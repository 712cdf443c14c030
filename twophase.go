package gocube

import (
	"context"
	"fmt"
	"sync"
)

// TwoPhaseEngine is the default engine. It solves any legal state with
// Kociemba's two-phase algorithm: phase 1 brings the cube into the subgroup
// generated by U, D, R2, L2, F2 and B2, phase 2 solves it inside that
// subgroup. The first solution of at most MaxLength moves is returned; it is
// short but not necessarily the shortest.
type TwoPhaseEngine struct {
	MaxLength int

	tables *twoPhaseTables
}

// NewTwoPhaseEngine creates a two-phase engine. maxLength <= 0 selects
// DefaultMaxDepth. The first call in a process builds the move and pruning
// tables, which takes a moment; later engines share them.
func NewTwoPhaseEngine(maxLength int) *TwoPhaseEngine {
	if maxLength <= 0 {
		maxLength = DefaultMaxDepth
	}
	return &TwoPhaseEngine{MaxLength: maxLength, tables: loadTwoPhaseTables()}
}

// Name identifies the engine in logs and solution records.
func (e *TwoPhaseEngine) Name() string {
	return "twophase"
}

// Solve implements Engine.
func (e *TwoPhaseEngine) Solve(ctx context.Context, state string) (string, error) {
	st, err := ParseState(state)
	if err != nil {
		return "", err
	}
	if err := st.Verify(); err != nil {
		return "", err
	}
	if st.IsSolved() {
		return "", nil
	}

	p, err := toPieces(&st)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsolvableState, err)
	}

	maxLen := e.MaxLength
	if maxLen <= 0 {
		maxLen = DefaultMaxDepth
	}
	t := e.tables
	if t == nil {
		t = loadTwoPhaseTables()
	}

	s := &twoPhaseSearch{
		ctx:    ctx,
		t:      t,
		start:  p,
		maxLen: maxLen,
		path1:  make([]int, 0, maxLen),
		path2:  make([]int, 0, maxPhase2Depth),
	}
	twist, flip, slice := twistCoord(&p), flipCoord(&p), sliceCoord(&p)
	for togo := t.phase1Dist(twist, flip, slice); togo <= maxLen; togo++ {
		if s.phase1(twist, flip, slice, togo) {
			return FormatMoves(Simplify(s.moves())), nil
		}
		if s.err != nil {
			return "", s.err
		}
	}
	return "", fmt.Errorf("%w: no solution within %d moves", ErrSolverTimeout, maxLen)
}

// Coordinate sizes.
const (
	nTwist     = 2187  // 3^7 corner orientations
	nFlip      = 2048  // 2^11 edge orientations
	nSlice     = 495   // 12 choose 4 places for the middle-layer edges
	nPerm8     = 40320 // 8! corner or U/D-layer edge permutations
	nSlicePerm = 24    // 4! middle-layer edge permutations
)

// maxPhase2Depth caps each phase 2 search.
const maxPhase2Depth = 10

// Moves are indexed face*3 + quarters-1 with faces in FaceOrder, so U is 0,
// U2 is 1, U' is 2, R is 3 and so on.
var phase2Moves = []int{0, 1, 2, 4, 7, 9, 10, 11, 13, 16}

var allMoves = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17}

var isPhase2Move = func() (b [18]bool) {
	for _, m := range phase2Moves {
		b[m] = true
	}
	return b
}()

func moveAt(m int) Move {
	return Move{Face: FaceOrder[m/3], Turn: quarterTurn[m%3+1]}
}

type twoPhaseTables struct {
	moves [18]pieces

	twistMove [][18]uint16
	flipMove  [][18]uint16
	sliceMove [][18]uint16

	cornerMove    [][18]uint16
	edgeMove      [][18]uint16
	slicePermMove [][18]uint8

	sliceTwistPrune []int8
	sliceFlipPrune  []int8
	cornerPrune     []int8
	edgePrune       []int8
}

var (
	twoPhaseOnce   sync.Once
	twoPhaseShared *twoPhaseTables
)

func loadTwoPhaseTables() *twoPhaseTables {
	twoPhaseOnce.Do(func() {
		twoPhaseShared = buildTwoPhaseTables()
	})
	return twoPhaseShared
}

func buildTwoPhaseTables() *twoPhaseTables {
	t := &twoPhaseTables{moves: faceTurnPieces()}

	t.twistMove = make([][18]uint16, nTwist)
	for i := 0; i < nTwist; i++ {
		p := identityPieces()
		setTwist(&p, i)
		for _, m := range allMoves {
			q := p.mul(&t.moves[m])
			t.twistMove[i][m] = uint16(twistCoord(&q))
		}
	}

	t.flipMove = make([][18]uint16, nFlip)
	for i := 0; i < nFlip; i++ {
		p := identityPieces()
		setFlip(&p, i)
		for _, m := range allMoves {
			q := p.mul(&t.moves[m])
			t.flipMove[i][m] = uint16(flipCoord(&q))
		}
	}

	t.sliceMove = make([][18]uint16, nSlice)
	for i := 0; i < nSlice; i++ {
		p := identityPieces()
		setSlice(&p, i)
		for _, m := range allMoves {
			q := p.mul(&t.moves[m])
			t.sliceMove[i][m] = uint16(sliceCoord(&q))
		}
	}

	t.cornerMove = make([][18]uint16, nPerm8)
	t.edgeMove = make([][18]uint16, nPerm8)
	for i := 0; i < nPerm8; i++ {
		p := identityPieces()
		setPerm(p.cp[:], i)
		setPerm(p.ep[:8], i)
		for _, m := range phase2Moves {
			q := p.mul(&t.moves[m])
			t.cornerMove[i][m] = uint16(permIndex(q.cp[:]))
			t.edgeMove[i][m] = uint16(permIndex(q.ep[:8]))
		}
	}

	t.slicePermMove = make([][18]uint8, nSlicePerm)
	for i := 0; i < nSlicePerm; i++ {
		p := identityPieces()
		var order [4]int
		setPerm(order[:], i)
		for k, e := range order {
			p.ep[8+k] = 8 + e
		}
		for _, m := range phase2Moves {
			q := p.mul(&t.moves[m])
			t.slicePermMove[i][m] = uint8(slicePermCoord(&q))
		}
	}

	solved := identityPieces()
	solvedSlice := sliceCoord(&solved)

	t.sliceTwistPrune = buildPrune(nSlice*nTwist, solvedSlice*nTwist, allMoves, func(i, m int) int {
		return int(t.sliceMove[i/nTwist][m])*nTwist + int(t.twistMove[i%nTwist][m])
	})
	t.sliceFlipPrune = buildPrune(nSlice*nFlip, solvedSlice*nFlip, allMoves, func(i, m int) int {
		return int(t.sliceMove[i/nFlip][m])*nFlip + int(t.flipMove[i%nFlip][m])
	})
	t.cornerPrune = buildPrune(nPerm8*nSlicePerm, 0, phase2Moves, func(i, m int) int {
		return int(t.cornerMove[i/nSlicePerm][m])*nSlicePerm + int(t.slicePermMove[i%nSlicePerm][m])
	})
	t.edgePrune = buildPrune(nPerm8*nSlicePerm, 0, phase2Moves, func(i, m int) int {
		return int(t.edgeMove[i/nSlicePerm][m])*nSlicePerm + int(t.slicePermMove[i%nSlicePerm][m])
	})

	return t
}

// buildPrune fills a distance table by breadth-first search from start.
func buildPrune(size, start int, moves []int, next func(i, m int) int) []int8 {
	dist := make([]int8, size)
	for i := range dist {
		dist[i] = -1
	}
	dist[start] = 0

	queue := make([]int32, 0, size)
	queue = append(queue, int32(start))
	for head := 0; head < len(queue); head++ {
		i := int(queue[head])
		d := dist[i]
		for _, m := range moves {
			n := next(i, m)
			if dist[n] < 0 {
				dist[n] = d + 1
				queue = append(queue, int32(n))
			}
		}
	}
	return dist
}

func (t *twoPhaseTables) phase1Dist(twist, flip, slice int) int {
	a := t.sliceTwistPrune[slice*nTwist+twist]
	b := t.sliceFlipPrune[slice*nFlip+flip]
	if a > b {
		return int(a)
	}
	return int(b)
}

func (t *twoPhaseTables) phase2Dist(corner, edge, slicePerm int) int {
	a := t.cornerPrune[corner*nSlicePerm+slicePerm]
	b := t.edgePrune[edge*nSlicePerm+slicePerm]
	if a > b {
		return int(a)
	}
	return int(b)
}

type twoPhaseSearch struct {
	ctx    context.Context
	t      *twoPhaseTables
	start  pieces
	maxLen int
	path1  []int
	path2  []int
	nodes  int
	err    error
}

// halted counts a node and reports whether the search must stop.
func (s *twoPhaseSearch) halted() bool {
	if s.err != nil {
		return true
	}
	s.nodes++
	if s.nodes%ctxPollInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return true
		}
	}
	return false
}

func (s *twoPhaseSearch) moves() []Move {
	out := make([]Move, 0, len(s.path1)+len(s.path2))
	for _, m := range s.path1 {
		out = append(out, moveAt(m))
	}
	for _, m := range s.path2 {
		out = append(out, moveAt(m))
	}
	return out
}

func lastFace(path []int) int {
	if len(path) == 0 {
		return -1
	}
	return path[len(path)-1] / 3
}

// redundant reports whether a turn of face f can be skipped after a turn of
// face last: the same face, or opposite faces in descending order.
func redundant(f, last int) bool {
	if last < 0 {
		return false
	}
	return f == last || (f == (last+3)%6 && f < last)
}

func (s *twoPhaseSearch) phase1(twist, flip, slice, togo int) bool {
	if s.halted() {
		return false
	}
	if togo == 0 {
		return s.startPhase2()
	}

	t := s.t
	dist := t.phase1Dist(twist, flip, slice)
	last := lastFace(s.path1)
	for _, m := range allMoves {
		if redundant(m/3, last) {
			continue
		}
		// Inside the subgroup with few moves left, phase 2 moves are
		// left to phase 2.
		if dist == 0 && togo < 5 && isPhase2Move[m] {
			continue
		}

		tw := int(t.twistMove[twist][m])
		fl := int(t.flipMove[flip][m])
		sl := int(t.sliceMove[slice][m])
		if t.phase1Dist(tw, fl, sl) >= togo {
			continue
		}

		s.path1 = append(s.path1, m)
		if s.phase1(tw, fl, sl, togo-1) {
			return true
		}
		s.path1 = s.path1[:len(s.path1)-1]
		if s.err != nil {
			return false
		}
	}
	return false
}

// startPhase2 replays the phase 1 moves on the start pieces and searches
// phase 2 with the moves left.
func (s *twoPhaseSearch) startPhase2() bool {
	p := s.start
	for _, m := range s.path1 {
		p = p.mul(&s.t.moves[m])
	}
	corner, edge, sp := permIndex(p.cp[:]), permIndex(p.ep[:8]), slicePermCoord(&p)

	limit := s.maxLen - len(s.path1)
	if limit > maxPhase2Depth {
		limit = maxPhase2Depth
	}
	for togo := s.t.phase2Dist(corner, edge, sp); togo <= limit; togo++ {
		s.path2 = s.path2[:0]
		if s.phase2(corner, edge, sp, togo) {
			return true
		}
		if s.err != nil {
			return false
		}
	}
	return false
}

func (s *twoPhaseSearch) phase2(corner, edge, sp, togo int) bool {
	if togo == 0 {
		return corner == 0 && edge == 0 && sp == 0
	}
	if s.halted() {
		return false
	}

	t := s.t
	last := lastFace(s.path2)
	joining := last < 0
	if joining {
		last = lastFace(s.path1)
	}
	for _, m := range phase2Moves {
		f := m / 3
		if joining && f == last {
			// A half turn after the last phase 1 quarter turn merges
			// into the opposite quarter turn.
			if m != f*3+1 {
				continue
			}
		} else if redundant(f, last) {
			continue
		}

		c := int(t.cornerMove[corner][m])
		e := int(t.edgeMove[edge][m])
		p := int(t.slicePermMove[sp][m])
		if t.phase2Dist(c, e, p) >= togo {
			continue
		}

		s.path2 = append(s.path2, m)
		if s.phase2(c, e, p, togo-1) {
			return true
		}
		s.path2 = s.path2[:len(s.path2)-1]
		if s.err != nil {
			return false
		}
	}
	return false
}

// faceTurnPieces derives the 18 face turns at the piece level from the
// facelet model.
func faceTurnPieces() [18]pieces {
	var out [18]pieces
	for f := 0; f < 6; f++ {
		c := NewCube()
		c.quarter(f)
		st := c.State()
		turn, err := toPieces(&st)
		if err != nil {
			panic(fmt.Sprintf("gocube: face turn %d: %v", f, err))
		}

		p := identityPieces()
		for q := 0; q < 3; q++ {
			p = p.mul(&turn)
			out[f*3+q] = p
		}
	}
	return out
}

func identityPieces() pieces {
	var p pieces
	for i := range p.cp {
		p.cp[i] = i
	}
	for i := range p.ep {
		p.ep[i] = i
	}
	return p
}

// mul returns p followed by b.
func (p *pieces) mul(b *pieces) pieces {
	var r pieces
	for i := 0; i < 8; i++ {
		r.cp[i] = p.cp[b.cp[i]]
		r.co[i] = (p.co[b.cp[i]] + b.co[i]) % 3
	}
	for i := 0; i < 12; i++ {
		r.ep[i] = p.ep[b.ep[i]]
		r.eo[i] = (p.eo[b.ep[i]] + b.eo[i]) % 2
	}
	return r
}

func twistCoord(p *pieces) int {
	t := 0
	for i := 0; i < 7; i++ {
		t = 3*t + p.co[i]
	}
	return t
}

func setTwist(p *pieces, t int) {
	sum := 0
	for i := 6; i >= 0; i-- {
		p.co[i] = t % 3
		sum += p.co[i]
		t /= 3
	}
	p.co[7] = (3 - sum%3) % 3
}

func flipCoord(p *pieces) int {
	f := 0
	for i := 0; i < 11; i++ {
		f = 2*f + p.eo[i]
	}
	return f
}

func setFlip(p *pieces, f int) {
	sum := 0
	for i := 10; i >= 0; i-- {
		p.eo[i] = f % 2
		sum += p.eo[i]
		f /= 2
	}
	p.eo[11] = sum % 2
}

// sliceCoord ranks the slots holding the middle-layer edges FR FL BL BR
// (pieces 8 to 11), ignoring their order.
func sliceCoord(p *pieces) int {
	idx, x := 0, 0
	for j := 11; j >= 0; j-- {
		if p.ep[j] >= 8 {
			idx += choose(11-j, x+1)
			x++
		}
	}
	return idx
}

func setSlice(p *pieces, idx int) {
	var taken [12]bool
	x := 4
	for j := 0; j < 12 && x > 0; j++ {
		if c := choose(11-j, x); idx >= c {
			p.ep[j] = 8 + 4 - x
			taken[j] = true
			idx -= c
			x--
		}
	}
	other := 0
	for j := 0; j < 12; j++ {
		if !taken[j] {
			p.ep[j] = other
			other++
		}
	}
}

func slicePermCoord(p *pieces) int {
	var order [4]int
	for k := range order {
		order[k] = p.ep[8+k] - 8
	}
	return permIndex(order[:])
}

func choose(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	r := 1
	for i := 0; i < k; i++ {
		r = r * (n - i) / (i + 1)
	}
	return r
}

// permIndex ranks a permutation of 0..len(p)-1; the identity is 0.
func permIndex(p []int) int {
	idx := 0
	for i := range p {
		less := 0
		for j := i + 1; j < len(p); j++ {
			if p[j] < p[i] {
				less++
			}
		}
		idx = idx*(len(p)-i) + less
	}
	return idx
}

// setPerm is the inverse of permIndex.
func setPerm(p []int, idx int) {
	n := len(p)
	var digits [12]int
	for i := n - 1; i >= 0; i-- {
		digits[i] = idx % (n - i)
		idx /= n - i
	}

	var used [12]bool
	for i := 0; i < n; i++ {
		k := digits[i]
		for v := 0; v < n; v++ {
			if used[v] {
				continue
			}
			if k == 0 {
				p[i] = v
				used[v] = true
				break
			}
			k--
		}
	}
}
