// Package history records every external run started from the TUI or the
// command line in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/spotui/internal/config"
	"github.com/studiowebux/spotui/internal/migrations"
)

// timestamps are stored in UTC with a fixed width so they sort as text
const timeLayout = "2006-01-02 15:04:05.000000"

// Run is one recorded invocation
type Run struct {
	ID         string     `json:"id"`
	Playlist   string     `json:"playlist"`
	TargetDir  string     `json:"targetDir"`
	Kind       string     `json:"kind"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	ExitCode   *int       `json:"exitCode,omitempty"`
	Lines      int        `json:"lines"`
}

// Running reports whether no finish was recorded yet
func (r Run) Running() bool {
	return r.FinishedAt == nil
}

// Duration is the wall time of a finished run
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists runs
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at dbPath and migrates it
func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		dbPath = config.DatabasePath
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Start records a run that has just been launched and returns its id
func (s *Store) Start(ctx context.Context, playlist, dir, kind string) (string, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, playlist, target_dir, kind, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, playlist, dir, kind, s.now().UTC().Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// Finish stores the outcome of the run with the given id
func (s *Store) Finish(ctx context.Context, runID string, exitCode, lines int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, exit_code = ?, lines = ?
		WHERE run_id = ?
	`, s.now().UTC().Format(timeLayout), exitCode, lines, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// Recent returns up to limit runs, newest first. A limit below one
// returns every run.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT run_id, playlist, target_dir, kind, started_at, finished_at, exit_code, lines
		FROM runs
		ORDER BY started_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Count returns the number of recorded runs
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

// Clear deletes every recorded run
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM runs"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run

	for rows.Next() {
		var r Run
		var started string
		var finished sql.NullString
		var exitCode sql.NullInt64

		if err := rows.Scan(&r.ID, &r.Playlist, &r.TargetDir, &r.Kind, &started, &finished, &exitCode, &r.Lines); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		r.StartedAt = parseTime(started)
		if finished.Valid {
			t := parseTime(finished.String)
			r.FinishedAt = &t
		}
		if exitCode.Valid {
			code := int(exitCode.Int64)
			r.ExitCode = &code
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return runs, nil
}

// parseTime accepts the stored layout and the RFC3339 form the driver
// hands back for DATETIME columns
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.Local()
	}
	if t, err := time.ParseInLocation(timeLayout, s, time.UTC); err == nil {
		return t.Local()
	}
	return time.Time{}
}
