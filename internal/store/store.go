// Package store persists rosters, their project lists, and solver runs in
// SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/courseforge/projmatch/internal/roster"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// RosterRecord is a stored roster with its course identity.
type RosterRecord struct {
	ID        string
	Course    string
	Semester  string
	Roster    *roster.Roster
	CreatedAt time.Time
}

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	createTablesSQL := `
    CREATE TABLE IF NOT EXISTS rosters (
        id TEXT PRIMARY KEY,
        course TEXT NOT NULL,
        semester TEXT NOT NULL,
        body TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );
    CREATE TABLE IF NOT EXISTS projects (
        roster_id TEXT NOT NULL,
        position INTEGER NOT NULL,
        name TEXT NOT NULL,
        PRIMARY KEY (roster_id, position)
    );
    CREATE TABLE IF NOT EXISTS runs (
        id TEXT PRIMARY KEY,
        roster_id TEXT NOT NULL,
        status TEXT NOT NULL,
        result TEXT,
        error TEXT NOT NULL DEFAULT '',
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL
    );
    CREATE TABLE IF NOT EXISTS run_logs (
        run_id TEXT NOT NULL,
        ts DATETIME NOT NULL,
        level TEXT NOT NULL,
        message TEXT NOT NULL
    );`

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateRoster stores a new roster. CreatedAt is set here.
func (s *Store) CreateRoster(rec *RosterRecord) error {
	body, err := json.Marshal(rec.Roster)
	if err != nil {
		return fmt.Errorf("marshal roster: %w", err)
	}
	rec.CreatedAt = time.Now().UTC()
	_, err = s.db.Exec(
		"INSERT INTO rosters (id, course, semester, body, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.ID, rec.Course, rec.Semester, string(body), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert roster: %w", err)
	}
	return nil
}

// GetRoster loads one roster by id.
func (s *Store) GetRoster(id string) (*RosterRecord, error) {
	row := s.db.QueryRow("SELECT id, course, semester, body, created_at FROM rosters WHERE id = ?", id)
	return scanRoster(row)
}

// ListRosters returns every roster, newest first.
func (s *Store) ListRosters() ([]*RosterRecord, error) {
	rows, err := s.db.Query("SELECT id, course, semester, body, created_at FROM rosters ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list rosters: %w", err)
	}
	defer rows.Close()

	var out []*RosterRecord
	for rows.Next() {
		rec, err := scanRoster(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoster(row rowScanner) (*RosterRecord, error) {
	rec := &RosterRecord{}
	var body string
	err := row.Scan(&rec.ID, &rec.Course, &rec.Semester, &body, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan roster: %w", err)
	}
	rec.Roster = &roster.Roster{}
	if err := json.Unmarshal([]byte(body), rec.Roster); err != nil {
		return nil, fmt.Errorf("unmarshal roster body: %w", err)
	}
	return rec, nil
}

// ProjectNames returns the roster's editable project list in insertion order.
func (s *Store) ProjectNames(rosterID string) ([]string, error) {
	rows, err := s.db.Query("SELECT name FROM projects WHERE roster_id = ? ORDER BY position", rosterID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AppendProject appends a name to the roster's project list. The name is
// stored as given; trimming happens in the editor before it gets here.
func (s *Store) AppendProject(rosterID, name string) error {
	_, err := s.db.Exec(
		"INSERT INTO projects (roster_id, position, name) SELECT ?, COALESCE(MAX(position)+1, 0), ? FROM projects WHERE roster_id = ?",
		rosterID, name, rosterID,
	)
	if err != nil {
		return fmt.Errorf("append project: %w", err)
	}
	return nil
}
