package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	gocube "github.com/SeamusWaldron/gocube_vision"
)

// Scan is one captured ScanSet and what the state builder made of it.
type Scan struct {
	ScanID      string
	CreatedAt   time.Time
	Source      *string
	SamplesJSON string
	State       *string
	BuildError  *string
}

// ScanSet decodes the stored samples.
func (s *Scan) ScanSet() (*gocube.ScanSet, error) {
	set := gocube.NewScanSet()
	if err := json.Unmarshal([]byte(s.SamplesJSON), set); err != nil {
		return nil, fmt.Errorf("failed to decode scan samples: %w", err)
	}
	return set, nil
}

// ScanRepository provides CRUD operations for scans.
type ScanRepository struct {
	db *DB
}

// NewScanRepository creates a new scan repository.
func NewScanRepository(db *DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// Create stores a scan and returns its ID. source describes where the
// frames came from (a directory, a file list).
func (r *ScanRepository) Create(set *gocube.ScanSet, source string) (string, error) {
	data, err := json.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("failed to encode scan samples: %w", err)
	}

	id := uuid.New().String()
	_, err = r.db.Exec(`
		INSERT INTO scans (scan_id, created_at, source, samples_json)
		VALUES (?, ?, ?, ?)
	`, id, formatTime(time.Now()), nullString(source), string(data))
	if err != nil {
		return "", fmt.Errorf("failed to create scan: %w", err)
	}

	return id, nil
}

// RecordBuild stores the outcome of building a state from the scan.
// Exactly one of state and buildErr is meaningful.
func (r *ScanRepository) RecordBuild(scanID string, state gocube.State, buildErr error) error {
	var stateText, errText *string
	if buildErr != nil {
		msg := buildErr.Error()
		errText = &msg
	} else {
		s := state.String()
		stateText = &s
	}

	res, err := r.db.Exec(`
		UPDATE scans SET state = ?, build_error = ?
		WHERE scan_id = ?
	`, stateText, errText, scanID)
	if err != nil {
		return fmt.Errorf("failed to record build: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("scan %s not found", scanID)
	}
	return nil
}

const scanColumns = `scan_id, created_at, source, samples_json, state, build_error`

func scanScan(row interface{ Scan(...any) error }) (*Scan, error) {
	var s Scan
	var createdAt string
	if err := row.Scan(&s.ScanID, &createdAt, &s.Source, &s.SamplesJSON, &s.State, &s.BuildError); err != nil {
		return nil, err
	}
	s.CreatedAt = parseTime(createdAt)
	return &s, nil
}

// Get retrieves a scan by ID. It returns nil when there is none.
func (r *ScanRepository) Get(scanID string) (*Scan, error) {
	s, err := scanScan(r.db.QueryRow(`SELECT `+scanColumns+` FROM scans WHERE scan_id = ?`, scanID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	return s, nil
}

// GetLast retrieves the most recent scan, or nil.
func (r *ScanRepository) GetLast() (*Scan, error) {
	scans, err := r.List(1)
	if err != nil || len(scans) == 0 {
		return nil, err
	}
	return &scans[0], nil
}

// List retrieves recent scans, newest first.
func (r *ScanRepository) List(limit int) ([]Scan, error) {
	rows, err := r.db.Query(`
		SELECT `+scanColumns+` FROM scans
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var scans []Scan
	for rows.Next() {
		s, err := scanScan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scan row: %w", err)
		}
		scans = append(scans, *s)
	}
	return scans, rows.Err()
}
