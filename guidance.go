package gocube

import "fmt"

// Status is the state of a guidance session.
type Status int

const (
	// StatusAwaiting means the session shows a move and waits for the user to
	// confirm it.
	StatusAwaiting Status = iota
	StatusComplete
	StatusCancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusAwaiting:
		return "awaiting_confirmation"
	case StatusComplete:
		return "complete"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusCancelled
}

// Snapshot is a point-in-time view of a session. Index is the 0-based
// position of the move being shown (or reached, once terminal).
type Snapshot struct {
	Status Status
	Index  int
	Total  int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithStartState makes the session track the cube from the scanned state,
// applying each confirmed move.
func WithStartState(s State) SessionOption {
	return func(sess *Session) {
		sess.tracker = NewTracker(s)
	}
}

// Session steps the user through a solution one confirmed move at a time.
// It never observes the physical cube; the user's confirmation is taken as
// proof that the move was performed. A Session is not safe for concurrent
// use.
type Session struct {
	solution Solution
	index    int
	status   Status
	tracker  *Tracker
}

// NewSession starts guidance for a solution. An empty solution completes
// immediately; a nil solution is ErrNoSolution.
func NewSession(sol Solution, opts ...SessionOption) (*Session, error) {
	if sol == nil {
		return nil, ErrNoSolution
	}
	for i, m := range sol {
		if !m.Valid() {
			return nil, fmt.Errorf("%w: move %d (%q)", ErrInvalidNotation, i+1, m.Notation())
		}
	}

	s := &Session{
		solution: append(Solution{}, sol...),
		status:   StatusAwaiting,
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.solution) == 0 {
		s.status = StatusComplete
	}
	return s, nil
}

// Confirm records that the current move was performed and advances.
// It returns false, changing nothing, when the session is terminal.
func (s *Session) Confirm() bool {
	if s.status != StatusAwaiting {
		return false
	}
	if s.tracker != nil {
		s.tracker.ApplyMove(s.solution[s.index])
	}
	s.index++
	if s.index == len(s.solution) {
		s.status = StatusComplete
	}
	return true
}

// Cancel abandons the session. It returns false when already terminal.
func (s *Session) Cancel() bool {
	if s.status != StatusAwaiting {
		return false
	}
	s.status = StatusCancelled
	return true
}

// Status returns the current status.
func (s *Session) Status() Status {
	return s.status
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{Status: s.status, Index: s.index, Total: len(s.solution)}
}

// CurrentMove returns the move awaiting confirmation.
func (s *Session) CurrentMove() (Move, bool) {
	if s.status != StatusAwaiting {
		return Move{}, false
	}
	return s.solution[s.index], true
}

// Progress returns the 1-based step being shown and the total number of
// moves. The step is clamped to the total.
func (s *Session) Progress() (step, total int) {
	total = len(s.solution)
	step = s.index + 1
	if step > total {
		step = total
	}
	return step, total
}

// Instruction returns what the overlay should display for the current move.
func (s *Session) Instruction() (Instruction, bool) {
	m, ok := s.CurrentMove()
	if !ok {
		return Instruction{}, false
	}
	cue := CueFor(m)
	step, total := s.Progress()
	return Instruction{
		Move:      m,
		Face:      m.Face,
		Direction: cue.Direction,
		Step:      step,
		Total:     total,
		Cue:       cue,
	}, true
}

// Solution returns a copy of the moves being guided.
func (s *Session) Solution() Solution {
	return append(Solution{}, s.solution...)
}

// Remaining returns the moves not yet confirmed.
func (s *Session) Remaining() Solution {
	return append(Solution{}, s.solution[s.index:]...)
}

// ExpectedSolved reports whether the tracked cube is solved. ok is false
// when the session was created without WithStartState.
func (s *Session) ExpectedSolved() (solved, ok bool) {
	if s.tracker == nil {
		return false, false
	}
	return s.tracker.IsSolved(), true
}

// Tracker returns the cube tracker, or nil without WithStartState.
func (s *Session) Tracker() *Tracker {
	return s.tracker
}
