// Package form fills application forms field by field through a browser page,
// recording what was entered into each field and why.
package form

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// ActionKind names an interaction the pacing policy can delay.
type ActionKind string

const (
	ActionField     ActionKind = "field"
	ActionScroll    ActionKind = "scroll"
	ActionClick     ActionKind = "click"
	ActionKeystroke ActionKind = "keystroke"
	ActionSelect    ActionKind = "select"
	ActionUpload    ActionKind = "upload"
)

// Pacing decides how long to pause before each action.
type Pacing interface {
	DelayBefore(kind ActionKind) time.Duration
}

// NoPacing never pauses. Use it in tests.
type NoPacing struct{}

func (NoPacing) DelayBefore(ActionKind) time.Duration { return 0 }

type delayRange struct {
	min, max time.Duration
}

// HumanPacing pauses for a random duration within a per-action range.
type HumanPacing struct {
	mu     sync.Mutex
	rng    *rand.Rand
	ranges map[ActionKind]delayRange
}

// NewHumanPacing creates a randomized pacing policy.
func NewHumanPacing(seed uint64) *HumanPacing {
	return &HumanPacing{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ranges: map[ActionKind]delayRange{
			ActionField:     {300 * time.Millisecond, 900 * time.Millisecond},
			ActionScroll:    {150 * time.Millisecond, 400 * time.Millisecond},
			ActionClick:     {80 * time.Millisecond, 250 * time.Millisecond},
			ActionKeystroke: {40 * time.Millisecond, 140 * time.Millisecond},
			ActionSelect:    {200 * time.Millisecond, 500 * time.Millisecond},
			ActionUpload:    {300 * time.Millisecond, 700 * time.Millisecond},
		},
	}
}

func (p *HumanPacing) DelayBefore(kind ActionKind) time.Duration {
	r, ok := p.ranges[kind]
	if !ok {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return r.min + time.Duration(p.rng.Int64N(int64(r.max-r.min)+1))
}

// pause sleeps for the policy's delay, returning early when ctx is done.
func pause(ctx context.Context, pacing Pacing, kind ActionKind) error {
	d := pacing.DelayBefore(kind)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
