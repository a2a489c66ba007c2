package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-hunter/internal/types"
)

// CreateRun creates a new hunt run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, searchQuery, profileID string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO hunt_runs (id, search_query, profile_id, status)
		 VALUES ($1, $2, $3, $4)`,
		id, searchQuery, profileID, RunStatusRunning,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a hunt run as finished with the given status and totals
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, counts RunCounts) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE hunt_runs
		 SET status = $1, applied = $2, failed = $3, skipped = $4, unprocessable = $5, completed_at = NOW()
		 WHERE id = $6`,
		status, counts.Applied, counts.Failed, counts.Skipped, counts.Unprocessable, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a hunt run by ID
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, search_query, profile_id, status, applied, failed, skipped, unprocessable, created_at, completed_at
		 FROM hunt_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.SearchQuery, &run.ProfileID, &run.Status,
		&run.Applied, &run.Failed, &run.Skipped, &run.Unprocessable, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// RecordAttempt stores an attempt that belongs to no run.
func (db *DB) RecordAttempt(ctx context.Context, attempt types.ApplicationAttempt) error {
	return db.insertAttempt(ctx, nil, attempt)
}

// RunTracker records attempts against one hunt run
type RunTracker struct {
	db    *DB
	runID uuid.UUID
}

// ForRun returns a tracker that attaches every attempt to runID.
func (db *DB) ForRun(runID uuid.UUID) *RunTracker {
	return &RunTracker{db: db, runID: runID}
}

// RunID returns the run the tracker writes to.
func (t *RunTracker) RunID() uuid.UUID {
	return t.runID
}

// RecordAttempt stores the attempt under the tracker's run.
func (t *RunTracker) RecordAttempt(ctx context.Context, attempt types.ApplicationAttempt) error {
	return t.db.insertAttempt(ctx, &t.runID, attempt)
}

func (db *DB) insertAttempt(ctx context.Context, runID *uuid.UUID, attempt types.ApplicationAttempt) error {
	id, err := uuid.Parse(attempt.ID)
	if err != nil {
		return fmt.Errorf("invalid attempt id %q: %w", attempt.ID, err)
	}
	row, err := encodeAttempt(attempt)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO application_attempts
		 (id, run_id, job_id, profile_id, company, title, job_url, outcome, message, field_errors, fill, job, attempted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id, runID, attempt.JobID, attempt.ProfileID, attempt.Job.Company, attempt.Job.Title, attempt.Job.URL,
		string(attempt.Outcome), attempt.Message, row.fieldErrors, row.fill, row.job, attempt.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt for job %s: %w", attempt.JobID, err)
	}
	return nil
}

// encodedAttempt holds the JSONB columns of an attempt row
type encodedAttempt struct {
	fieldErrors []byte
	fill        []byte
	job         []byte
}

func encodeAttempt(attempt types.ApplicationAttempt) (encodedAttempt, error) {
	var row encodedAttempt
	var err error

	fieldErrors := attempt.FieldErrors
	if fieldErrors == nil {
		fieldErrors = []string{}
	}
	if row.fieldErrors, err = json.Marshal(fieldErrors); err != nil {
		return row, fmt.Errorf("failed to marshal field errors: %w", err)
	}
	if attempt.Fill != nil {
		if row.fill, err = json.Marshal(attempt.Fill); err != nil {
			return row, fmt.Errorf("failed to marshal fill result: %w", err)
		}
	}
	if row.job, err = json.Marshal(attempt.Job); err != nil {
		return row, fmt.Errorf("failed to marshal job: %w", err)
	}
	return row, nil
}

// GetAttempt retrieves an attempt by its ID
func (db *DB) GetAttempt(ctx context.Context, id uuid.UUID) (*AttemptRecord, error) {
	rows, err := db.pool.Query(ctx, selectAttempts+" WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	records, err := scanAttempts(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// ListAttempts retrieves attempts with optional filters, newest first
func (db *DB) ListAttempts(ctx context.Context, filters AttemptFilters) ([]AttemptRecord, error) {
	query, args := buildAttemptQuery(filters)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return scanAttempts(rows)
}

// HasApplied reports whether any attempt for jobID was submitted.
func (db *DB) HasApplied(ctx context.Context, jobID string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM application_attempts WHERE job_id = $1 AND outcome = $2)`,
		jobID, string(types.OutcomeApplied),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check attempts for job %s: %w", jobID, err)
	}
	return exists, nil
}

const selectAttempts = `SELECT id, run_id, job_id, profile_id, company, title, job_url, outcome, message,
	field_errors, fill, job, attempted_at FROM application_attempts`

func buildAttemptQuery(filters AttemptFilters) (string, []any) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	var where []string
	args := []any{}
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filters.RunID != uuid.Nil {
		add("run_id = $%d", filters.RunID)
	}
	if filters.JobID != "" {
		add("job_id = $%d", filters.JobID)
	}
	if filters.Company != "" {
		add("company ILIKE $%d", "%"+filters.Company+"%")
	}
	if filters.Outcome != "" {
		add("outcome = $%d", string(filters.Outcome))
	}

	query := selectAttempts
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filters.Limit)
	query += fmt.Sprintf(" ORDER BY attempted_at DESC LIMIT $%d", len(args))
	return query, args
}

func scanAttempts(rows pgx.Rows) ([]AttemptRecord, error) {
	defer rows.Close()

	records := []AttemptRecord{}
	for rows.Next() {
		var rec AttemptRecord
		var outcome string
		var fieldErrors, fill, job []byte
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.JobID, &rec.ProfileID, &rec.Company, &rec.Title, &rec.JobURL,
			&outcome, &rec.Message, &fieldErrors, &fill, &job, &rec.AttemptedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		rec.Outcome = types.Outcome(outcome)
		if err := json.Unmarshal(fieldErrors, &rec.FieldErrors); err != nil {
			return nil, fmt.Errorf("failed to decode field errors: %w", err)
		}
		if len(fill) > 0 {
			rec.Fill = &types.FillResult{}
			if err := json.Unmarshal(fill, rec.Fill); err != nil {
				return nil, fmt.Errorf("failed to decode fill result: %w", err)
			}
		}
		if err := json.Unmarshal(job, &rec.Job); err != nil {
			return nil, fmt.Errorf("failed to decode job: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attempts: %w", err)
	}
	return records, nil
}
