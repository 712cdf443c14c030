package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	gocube "github.com/SeamusWaldron/gocube_vision"
)

// GuidanceSession is the record of one guided solve.
type GuidanceSession struct {
	SessionID      string
	SolutionID     string
	StartedAt      time.Time
	EndedAt        *time.Time
	Status         string
	StepsConfirmed int
	TotalSteps     int
	ExpectedSolved *bool
}

// GuidanceRepository provides CRUD operations for guidance sessions.
type GuidanceRepository struct {
	db *DB
}

// NewGuidanceRepository creates a new guidance repository.
func NewGuidanceRepository(db *DB) *GuidanceRepository {
	return &GuidanceRepository{db: db}
}

// Start records the beginning of a session and returns its ID.
func (r *GuidanceRepository) Start(solutionID string, snap gocube.Snapshot) (string, error) {
	id := uuid.New().String()
	_, err := r.db.Exec(`
		INSERT INTO guidance_sessions (session_id, solution_id, started_at, status, steps_confirmed, total_steps)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, solutionID, formatTime(time.Now()), snap.Status.String(), snap.Index, snap.Total)
	if err != nil {
		return "", fmt.Errorf("failed to start guidance session: %w", err)
	}
	return id, nil
}

// Finish stores the final snapshot. expectedSolved is nil when the session
// did not track the cube.
func (r *GuidanceRepository) Finish(sessionID string, snap gocube.Snapshot, expectedSolved *bool) error {
	res, err := r.db.Exec(`
		UPDATE guidance_sessions
		SET ended_at = ?, status = ?, steps_confirmed = ?, expected_solved = ?
		WHERE session_id = ?
	`, formatTime(time.Now()), snap.Status.String(), snap.Index, expectedSolved, sessionID)
	if err != nil {
		return fmt.Errorf("failed to finish guidance session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("guidance session %s not found", sessionID)
	}
	return nil
}

const sessionColumns = `session_id, solution_id, started_at, ended_at, status, steps_confirmed, total_steps, expected_solved`

func scanSession(row interface{ Scan(...any) error }) (*GuidanceSession, error) {
	var g GuidanceSession
	var startedAt string
	var endedAt sql.NullString
	var solved sql.NullBool
	err := row.Scan(&g.SessionID, &g.SolutionID, &startedAt, &endedAt, &g.Status,
		&g.StepsConfirmed, &g.TotalSteps, &solved)
	if err != nil {
		return nil, err
	}
	g.StartedAt = parseTime(startedAt)
	if endedAt.Valid {
		t := parseTime(endedAt.String)
		g.EndedAt = &t
	}
	if solved.Valid {
		g.ExpectedSolved = &solved.Bool
	}
	return &g, nil
}

// Get retrieves a session by ID. It returns nil when there is none.
func (r *GuidanceRepository) Get(sessionID string) (*GuidanceSession, error) {
	g, err := scanSession(r.db.QueryRow(`SELECT `+sessionColumns+` FROM guidance_sessions WHERE session_id = ?`, sessionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guidance session: %w", err)
	}
	return g, nil
}

// List retrieves recent sessions, newest first.
func (r *GuidanceRepository) List(limit int) ([]GuidanceSession, error) {
	rows, err := r.db.Query(`
		SELECT `+sessionColumns+` FROM guidance_sessions
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list guidance sessions: %w", err)
	}
	defer rows.Close()

	var out []GuidanceSession
	for rows.Next() {
		g, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guidance session row: %w", err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}
