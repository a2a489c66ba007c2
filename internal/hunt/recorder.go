package hunt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/jonathan/job-hunter/internal/types"
)

// AttemptRecorder persists application attempts.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, attempt types.ApplicationAttempt) error
}

// SeenMarker remembers jobs that were handled so later runs can skip them.
type SeenMarker interface {
	MarkSeen(ctx context.Context, job types.DiscoveredJob, outcome types.Outcome) error
}

// LogRecorder writes each attempt as one JSON line.
type LogRecorder struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogRecorder creates a LogRecorder writing to w.
func NewLogRecorder(w io.Writer) *LogRecorder {
	return &LogRecorder{w: w}
}

func (r *LogRecorder) RecordAttempt(_ context.Context, attempt types.ApplicationAttempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := fmt.Fprintln(r.w, string(data)); err != nil {
		return fmt.Errorf("failed to write attempt: %w", err)
	}
	return nil
}
