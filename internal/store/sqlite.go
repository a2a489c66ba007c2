// Package store remembers which jobs earlier runs already handled so discovery can
// skip them.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonathan/job-hunter/internal/types"
)

// SQLiteStore tracks seen job IDs in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// SeenJob is one row of the store.
type SeenJob struct {
	JobID   string
	URL     string
	Title   string
	Company string
	Outcome types.Outcome
	SeenAt  time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// seen_jobs table exists.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// one writer; concurrent hunts share the store
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS seen_jobs (
		job_id  TEXT PRIMARY KEY,
		url     TEXT NOT NULL DEFAULT '',
		title   TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL DEFAULT '',
		seen_at INTEGER NOT NULL
	)`
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating seen_jobs table: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Seen returns true if the given job ID has already been recorded.
func (s *SQLiteStore) Seen(ctx context.Context, jobID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM seen_jobs WHERE job_id = ?", jobID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", jobID, err)
	}
	return true, nil
}

// MarkSeen records a job and the outcome of its latest attempt. The first-seen time
// of an existing row is kept.
func (s *SQLiteStore) MarkSeen(ctx context.Context, job types.DiscoveredJob, outcome types.Outcome) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO seen_jobs (job_id, url, title, company, outcome, seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET outcome = excluded.outcome`,
		job.ID, job.URL, job.Title, job.Company, string(outcome), s.now().Unix())
	if err != nil {
		return fmt.Errorf("marking job %s as seen: %w", job.ID, err)
	}
	return nil
}

// Get returns the stored row for jobID, or nil when it was never seen.
func (s *SQLiteStore) Get(ctx context.Context, jobID string) (*SeenJob, error) {
	var row SeenJob
	var outcome string
	var seenAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT job_id, url, title, company, outcome, seen_at FROM seen_jobs WHERE job_id = ?", jobID,
	).Scan(&row.JobID, &row.URL, &row.Title, &row.Company, &outcome, &seenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading seen job %s: %w", jobID, err)
	}
	row.Outcome = types.Outcome(outcome)
	row.SeenAt = time.Unix(seenAt, 0)
	return &row, nil
}

// Cleanup deletes entries first seen longer ago than olderThan and returns how many
// were removed.
func (s *SQLiteStore) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).Unix()
	res, err := s.db.ExecContext(ctx, "DELETE FROM seen_jobs WHERE seen_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up seen jobs older than %v: %w", olderThan, err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored jobs.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM seen_jobs").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting seen jobs: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
