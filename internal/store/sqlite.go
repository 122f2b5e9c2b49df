// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides selection/job persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/2389/folio/internal/convert"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS selections (
			room_id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS jobs (
			job_id TEXT PRIMARY KEY,
			room_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			finished_at DATETIME
		);

		CREATE INDEX IF NOT EXISTS idx_jobs_room_created
			ON jobs(room_id, created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Selection returns the room's current conversion selection.
// A room that never picked one yields convert.KindUnset without error.
func (s *SQLiteStore) Selection(ctx context.Context, roomID string) (convert.Kind, error) {
	query := `SELECT kind FROM selections WHERE room_id = ?`

	var token string
	err := s.db.QueryRowContext(ctx, query, roomID).Scan(&token)
	if err == sql.ErrNoRows {
		return convert.KindUnset, nil
	}
	if err != nil {
		return convert.KindUnset, fmt.Errorf("querying selection: %w", err)
	}

	return convert.ParseKind(token), nil
}

// SetSelection overwrites the room's selection.
func (s *SQLiteStore) SetSelection(ctx context.Context, roomID string, kind convert.Kind) error {
	query := `
		INSERT INTO selections (room_id, kind, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(room_id) DO UPDATE SET
			kind = excluded.kind,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		roomID,
		kind.Token(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting selection: %w", err)
	}

	s.logger.Debug("selection updated", "room", roomID, "kind", kind.String())
	return nil
}

// RecordJob inserts a new transfer job.
func (s *SQLiteStore) RecordJob(ctx context.Context, job *Job) error {
	query := `
		INSERT INTO jobs (job_id, room_id, filename, kind, status, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		job.ID,
		job.RoomID,
		job.Filename,
		job.Kind.Token(),
		string(job.Status),
		job.Detail,
		job.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}

	s.logger.Debug("job recorded", "id", job.ID, "room", job.RoomID, "file", job.Filename)
	return nil
}

// FinishJob marks a job done or failed.
func (s *SQLiteStore) FinishJob(ctx context.Context, id string, status JobStatus, detail string) error {
	query := `UPDATE jobs SET status = ?, detail = ?, finished_at = ? WHERE job_id = ?`

	result, err := s.db.ExecContext(ctx, query,
		string(status),
		detail,
		time.Now().UTC().Format(time.RFC3339),
		id,
	)
	if err != nil {
		return fmt.Errorf("updating job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrJobNotFound
	}

	s.logger.Debug("job finished", "id", id, "status", string(status))
	return nil
}

// GetJob retrieves a job by ID.
func (s *SQLiteStore) GetJob(ctx context.Context, id string) (*Job, error) {
	query := `
		SELECT job_id, room_id, filename, kind, status, detail, created_at, finished_at
		FROM jobs
		WHERE job_id = ?
	`

	var job Job
	var kindToken, createdAtStr string
	var finishedAtStr *string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.RoomID,
		&job.Filename,
		&kindToken,
		&job.Status,
		&job.Detail,
		&createdAtStr,
		&finishedAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying job: %w", err)
	}

	job.Kind = convert.ParseKind(kindToken)
	job.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if finishedAtStr != nil {
		finishedAt, err := time.Parse(time.RFC3339, *finishedAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		job.FinishedAt = &finishedAt
	}

	return &job, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
