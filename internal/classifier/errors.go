// Package classifier turns rendered pages into structured analyses using a vision model,
// and answers the smaller judgement questions the hunt needs: job/profile fit,
// careers page URLs and free-form field values.
package classifier

import "fmt"

// ClassificationError represents a failed model call while classifying or answering.
// Parse failures are never reported this way; they produce a degraded ParseResult.
type ClassificationError struct {
	Message string
	Cause   error
}

func (e *ClassificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classification error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("classification error: %s", e.Message)
}

func (e *ClassificationError) Unwrap() error {
	return e.Cause
}
