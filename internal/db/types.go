package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-hunter/internal/types"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusCancelled = "cancelled"
	RunStatusError     = "error"
)

// Run represents a hunt run record
type Run struct {
	ID            uuid.UUID  `json:"id"`
	SearchQuery   string     `json:"search_query"`
	ProfileID     string     `json:"profile_id"`
	Status        string     `json:"status"`
	Applied       int        `json:"applied"`
	Failed        int        `json:"failed"`
	Skipped       int        `json:"skipped"`
	Unprocessable int        `json:"unprocessable"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// RunCounts holds the per-outcome totals written when a run completes
type RunCounts struct {
	Applied       int
	Failed        int
	Skipped       int
	Unprocessable int
}

// AttemptRecord is a stored application attempt
type AttemptRecord struct {
	ID          uuid.UUID           `json:"id"`
	RunID       *uuid.UUID          `json:"run_id,omitempty"`
	JobID       string              `json:"job_id"`
	ProfileID   string              `json:"profile_id"`
	Company     string              `json:"company"`
	Title       string              `json:"title"`
	JobURL      string              `json:"job_url"`
	Outcome     types.Outcome       `json:"outcome"`
	Message     string              `json:"message"`
	FieldErrors []string            `json:"field_errors"`
	Fill        *types.FillResult   `json:"fill,omitempty"`
	Job         types.DiscoveredJob `json:"job"`
	AttemptedAt time.Time           `json:"attempted_at"`
}

// AttemptFilters holds optional filters for listing attempts
type AttemptFilters struct {
	RunID   uuid.UUID
	JobID   string
	Company string
	Outcome types.Outcome
	Limit   int
}
