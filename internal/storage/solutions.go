package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	gocube "github.com/SeamusWaldron/gocube_vision"
)

// Solution is one solver run.
type Solution struct {
	SolutionID string
	ScanID     *string
	CreatedAt  time.Time
	State      string
	Engine     string
	Moves      *string
	MoveCount  int
	DurationMs int64
	Error      *string
}

// Solved reports whether the run produced a solution.
func (s *Solution) Solved() bool {
	return s.Error == nil
}

// Parsed returns the stored moves as a gocube.Solution.
func (s *Solution) Parsed() (gocube.Solution, error) {
	if s.Error != nil {
		return nil, fmt.Errorf("solution %s has no moves: %s", s.SolutionID, *s.Error)
	}
	text := ""
	if s.Moves != nil {
		text = *s.Moves
	}
	return gocube.ParseSolution(text)
}

// SolveRun describes a finished solver call.
type SolveRun struct {
	ScanID   string // optional
	State    string
	Engine   string
	Moves    gocube.Solution
	Duration time.Duration
	Err      error
}

// SolutionRepository provides CRUD operations for solver runs.
type SolutionRepository struct {
	db *DB
}

// NewSolutionRepository creates a new solution repository.
func NewSolutionRepository(db *DB) *SolutionRepository {
	return &SolutionRepository{db: db}
}

// Record stores a solver run and returns its ID.
func (r *SolutionRepository) Record(run SolveRun) (string, error) {
	var moves, errText *string
	if run.Err != nil {
		msg := run.Err.Error()
		errText = &msg
	} else {
		m := run.Moves.String()
		moves = &m
	}

	id := uuid.New().String()
	_, err := r.db.Exec(`
		INSERT INTO solutions (solution_id, scan_id, created_at, state, engine, moves, move_count, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, nullString(run.ScanID), formatTime(time.Now()), run.State, run.Engine,
		moves, len(run.Moves), run.Duration.Milliseconds(), errText)
	if err != nil {
		return "", fmt.Errorf("failed to record solution: %w", err)
	}

	return id, nil
}

const solutionColumns = `solution_id, scan_id, created_at, state, engine, moves, move_count, duration_ms, error`

func scanSolution(row interface{ Scan(...any) error }) (*Solution, error) {
	var s Solution
	var createdAt string
	err := row.Scan(&s.SolutionID, &s.ScanID, &createdAt, &s.State, &s.Engine,
		&s.Moves, &s.MoveCount, &s.DurationMs, &s.Error)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}

// Get retrieves a solver run by ID. It returns nil when there is none.
func (r *SolutionRepository) Get(solutionID string) (*Solution, error) {
	s, err := scanSolution(r.db.QueryRow(`SELECT `+solutionColumns+` FROM solutions WHERE solution_id = ?`, solutionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solution: %w", err)
	}
	return s, nil
}

// FindSolved returns the most recent successful run for a state, or nil.
func (r *SolutionRepository) FindSolved(state string) (*Solution, error) {
	s, err := scanSolution(r.db.QueryRow(`
		SELECT `+solutionColumns+` FROM solutions
		WHERE state = ? AND error IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`, state))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find solution: %w", err)
	}
	return s, nil
}

// List retrieves recent solver runs, newest first.
func (r *SolutionRepository) List(limit int) ([]Solution, error) {
	rows, err := r.db.Query(`
		SELECT `+solutionColumns+` FROM solutions
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list solutions: %w", err)
	}
	defer rows.Close()

	var out []Solution
	for rows.Next() {
		s, err := scanSolution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan solution row: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
