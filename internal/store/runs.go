package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/courseforge/projmatch/internal/solver"
)

// RunStatus represents the execution status of a solver run.
type RunStatus string

const (
	StatusPending   RunStatus = "pending"
	StatusRunning   RunStatus = "running"
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Run is one solver execution for a roster.
type Run struct {
	ID        string
	RosterID  string
	Status    RunStatus
	Result    *solver.Result
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Logs      []LogEntry
}

// LogEntry is one progress line attached to a run.
type LogEntry struct {
	Timestamp time.Time
	Level     string // info, error, success
	Message   string
}

// CreateRun stores a new run in pending state.
func (s *Store) CreateRun(run *Run) error {
	now := time.Now().UTC()
	run.Status = StatusPending
	run.CreatedAt = now
	run.UpdatedAt = now
	_, err := s.db.Exec(
		"INSERT INTO runs (id, roster_id, status, result, error, created_at, updated_at) VALUES (?, ?, ?, NULL, '', ?, ?)",
		run.ID, run.RosterID, run.Status, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun loads one run with its logs.
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow("SELECT id, roster_id, status, result, error, created_at, updated_at FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT ts, level, message FROM run_logs WHERE run_id = ? ORDER BY ts, rowid", id)
	if err != nil {
		return nil, fmt.Errorf("list run logs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var entry LogEntry
		if err := rows.Scan(&entry.Timestamp, &entry.Level, &entry.Message); err != nil {
			return nil, fmt.Errorf("scan run log: %w", err)
		}
		run.Logs = append(run.Logs, entry)
	}
	return run, rows.Err()
}

// ListRuns returns every run, newest first, without logs.
func (s *Store) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query("SELECT id, roster_id, status, result, error, created_at, updated_at FROM runs ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var result sql.NullString
	err := row.Scan(&run.ID, &run.RosterID, &run.Status, &result, &run.Error, &run.CreatedAt, &run.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if result.Valid && result.String != "" {
		run.Result = &solver.Result{}
		if err := json.Unmarshal([]byte(result.String), run.Result); err != nil {
			return nil, fmt.Errorf("unmarshal run result: %w", err)
		}
	}
	return run, nil
}

// UpdateRunStatus moves a run to a new status.
func (s *Store) UpdateRunStatus(id string, status RunStatus) error {
	_, err := s.db.Exec("UPDATE runs SET status = ?, updated_at = ? WHERE id = ?", status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return nil
}

// SetRunResult stores the solver output and marks the run completed.
func (s *Store) SetRunResult(id string, res *solver.Result) error {
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal run result: %w", err)
	}
	_, err = s.db.Exec(
		"UPDATE runs SET status = ?, result = ?, updated_at = ? WHERE id = ?",
		StatusCompleted, string(body), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set run result: %w", err)
	}
	return nil
}

// SetRunError records a failure message and marks the run failed.
func (s *Store) SetRunError(id, message string) error {
	_, err := s.db.Exec(
		"UPDATE runs SET status = ?, error = ?, updated_at = ? WHERE id = ?",
		StatusFailed, message, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set run error: %w", err)
	}
	return nil
}

// AddRunLog appends a progress line to a run.
func (s *Store) AddRunLog(id, level, message string) error {
	_, err := s.db.Exec(
		"INSERT INTO run_logs (run_id, ts, level, message) VALUES (?, ?, ?, ?)",
		id, time.Now().UTC(), level, message,
	)
	if err != nil {
		return fmt.Errorf("add run log: %w", err)
	}
	return nil
}
