// Package hunt sequences discovery, matching and application into a single run and
// reports its progress through caller-supplied callbacks.
package hunt

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCareersPage is returned by QuickApply when no careers page could be resolved.
	ErrNoCareersPage = errors.New("no careers page found")
	// ErrNoMatchingJob is returned by QuickApply when the careers page lists no matching job.
	ErrNoMatchingJob = errors.New("no matching job found")
)

// HuntError represents a condition that stopped a run
type HuntError struct {
	Message string
	Cause   error
}

func (e *HuntError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("hunt error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("hunt error: %s", e.Message)
}

func (e *HuntError) Unwrap() error {
	return e.Cause
}
