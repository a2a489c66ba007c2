// Package db provides PostgreSQL storage for hunt runs and application attempts.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS hunt_runs (
	id            UUID PRIMARY KEY,
	search_query  TEXT NOT NULL,
	profile_id    TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	applied       INT NOT NULL DEFAULT 0,
	failed        INT NOT NULL DEFAULT 0,
	skipped       INT NOT NULL DEFAULT 0,
	unprocessable INT NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at  TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS application_attempts (
	id           UUID PRIMARY KEY,
	run_id       UUID REFERENCES hunt_runs(id) ON DELETE CASCADE,
	job_id       TEXT NOT NULL,
	profile_id   TEXT NOT NULL DEFAULT '',
	company      TEXT NOT NULL DEFAULT '',
	title        TEXT NOT NULL DEFAULT '',
	job_url      TEXT NOT NULL DEFAULT '',
	outcome      TEXT NOT NULL,
	message      TEXT NOT NULL DEFAULT '',
	field_errors JSONB NOT NULL DEFAULT '[]',
	fill         JSONB,
	job          JSONB NOT NULL,
	attempted_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS application_attempts_job_id_idx ON application_attempts (job_id);
CREATE INDEX IF NOT EXISTS application_attempts_run_id_idx ON application_attempts (run_id);
`

// EnsureSchema creates the tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
