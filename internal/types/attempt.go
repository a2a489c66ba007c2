package types

import "time"

// Outcome is the recorded result of one application attempt.
type Outcome string

const (
	OutcomeApplied       Outcome = "applied"
	OutcomeFailed        Outcome = "failed"
	OutcomeSkipped       Outcome = "skipped"
	OutcomeUnprocessable Outcome = "unprocessable"
)

// ApplicationAttempt is the input the tracker needs to record one attempt.
type ApplicationAttempt struct {
	ID          string        `json:"id"`
	JobID       string        `json:"job_id"`
	Job         DiscoveredJob `json:"job"`
	ProfileID   string        `json:"profile_id"`
	Outcome     Outcome       `json:"outcome"`
	Message     string        `json:"message,omitempty"`
	FieldErrors []string      `json:"field_errors"`
	Fill        *FillResult   `json:"fill,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}
