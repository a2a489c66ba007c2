package hunt

import (
	"context"

	"github.com/jonathan/job-hunter/internal/types"
)

// Phase is a state of the per-run state machine.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseDiscovering Phase = "discovering"
	PhaseMatching    Phase = "matching"
	PhaseApplying    Phase = "applying"
	PhaseCompleted   Phase = "completed"
	PhaseError       Phase = "error"
)

// IsTerminal reports whether no further transition can happen.
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted || p == PhaseError
}

// Progress is a live status update.
type Progress struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// Callbacks receive run events. Every field is optional.
type Callbacks struct {
	OnJobDiscovered       func(job types.DiscoveredJob)
	OnJobMatched          func(job types.DiscoveredJob, score int)
	OnApplicationStart    func(job types.DiscoveredJob)
	OnApplicationComplete func(attempt types.ApplicationAttempt)
	// OnConfirmationRequired is asked before every submit; returning false skips the job.
	// When nil, forms are submitted without asking.
	OnConfirmationRequired func(ctx context.Context, job types.DiscoveredJob) bool
	OnError                func(err error)
	OnProgress             func(p Progress)
}

func (c *Callbacks) jobDiscovered(job types.DiscoveredJob) {
	if c != nil && c.OnJobDiscovered != nil {
		c.OnJobDiscovered(job)
	}
}

func (c *Callbacks) jobMatched(job types.DiscoveredJob, score int) {
	if c != nil && c.OnJobMatched != nil {
		c.OnJobMatched(job, score)
	}
}

func (c *Callbacks) applicationStart(job types.DiscoveredJob) {
	if c != nil && c.OnApplicationStart != nil {
		c.OnApplicationStart(job)
	}
}

func (c *Callbacks) applicationComplete(attempt types.ApplicationAttempt) {
	if c != nil && c.OnApplicationComplete != nil {
		c.OnApplicationComplete(attempt)
	}
}

func (c *Callbacks) confirm(ctx context.Context, job types.DiscoveredJob) bool {
	if c == nil || c.OnConfirmationRequired == nil {
		return true
	}
	return c.OnConfirmationRequired(ctx, job)
}

func (c *Callbacks) reportError(err error) {
	if c != nil && c.OnError != nil {
		c.OnError(err)
	}
}

func (c *Callbacks) progress(p Progress) {
	if c != nil && c.OnProgress != nil {
		c.OnProgress(p)
	}
}
