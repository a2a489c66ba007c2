package hunt

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/job-hunter/internal/browser"
	"github.com/jonathan/job-hunter/internal/classifier"
	"github.com/jonathan/job-hunter/internal/llm"
	"github.com/jonathan/job-hunter/internal/types"
)

// Discoverer finds and enriches jobs.
type Discoverer interface {
	Discover(ctx context.Context, page browser.Page, cfg types.SearchConfig) ([]types.DiscoveredJob, error)
	ScrapeCareers(ctx context.Context, page browser.Page, target types.CompanyTarget, query string) ([]types.DiscoveredJob, error)
	Hydrate(ctx context.Context, page browser.Page, job types.DiscoveredJob) (types.DiscoveredJob, error)
}

// Analyst is the model-backed judgement the run relies on.
type Analyst interface {
	ClassifyPage(ctx context.Context, page browser.Page) (classifier.ParseResult, error)
	MatchJobToProfile(ctx context.Context, description string, profile *types.UserProfile) (classifier.MatchResult, error)
	ResolveCareersPage(ctx context.Context, company, website string) (string, error)
}

// FormFiller fills the form described by an analysis.
type FormFiller interface {
	FillForm(ctx context.Context, page browser.Page, profile *types.UserProfile, job types.JobContext, analysis *types.PageAnalysis) types.FillResult
}

const (
	// DefaultMinMatchScore is the match score a job needs to be applied to.
	DefaultMinMatchScore = 60
	// DefaultHydrateBelow hydrates jobs whose description is shorter than this.
	DefaultHydrateBelow = 200
	// DefaultMaxFormSteps bounds the pages of a multi-step application form.
	DefaultMaxFormSteps = 5
	// DiscoveryOverfetch is how many candidates per job slot discovery may return, since
	// jobs scoring under MinMatchScore never reach the apply phase.
	DiscoveryOverfetch = 3
)

// Options configures a Hunter.
type Options struct {
	MinMatchScore int
	// HydrateBelow is the description length under which a job page is visited before
	// matching. Negative disables hydration.
	HydrateBelow int
	MaxFormSteps int
	// SettleWait is how long to wait after clicks that change the page.
	SettleWait time.Duration
	// DryRun fills forms but never submits them.
	DryRun  bool
	Verbose bool
}

// DefaultOptions returns the run defaults.
func DefaultOptions() Options {
	return Options{
		MinMatchScore: DefaultMinMatchScore,
		HydrateBelow:  DefaultHydrateBelow,
		MaxFormSteps:  DefaultMaxFormSteps,
		SettleWait:    2 * time.Second,
	}
}

// HuntResult is the summary of one run.
type HuntResult struct {
	Phase      Phase                      `json:"phase"`
	Discovered []types.DiscoveredJob      `json:"discovered"`
	Matched    []types.MatchedJob         `json:"matched"`
	Attempts   []types.ApplicationAttempt `json:"attempts"`
	Cancelled  bool                       `json:"cancelled"`
	Err        error                      `json:"-"`
	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
}

// Count returns the number of attempts with the given outcome.
func (r *HuntResult) Count(outcome types.Outcome) int {
	n := 0
	for _, a := range r.Attempts {
		if a.Outcome == outcome {
			n++
		}
	}
	return n
}

// Hunter runs hunts against a single browser page. A Hunter is not safe for
// concurrent use; concurrent hunts each need their own Hunter and page.
type Hunter struct {
	page       browser.Page
	discoverer Discoverer
	analyst    Analyst
	filler     FormFiller
	recorder   AttemptRecorder
	seen       SeenMarker
	opts       Options
	now        func() time.Time
	newID      func() string
}

// NewHunter creates a Hunter. Zero option values take their defaults.
func NewHunter(page browser.Page, discoverer Discoverer, analyst Analyst, filler FormFiller, opts Options) *Hunter {
	defaults := DefaultOptions()
	if opts.MinMatchScore <= 0 {
		opts.MinMatchScore = defaults.MinMatchScore
	}
	if opts.HydrateBelow == 0 {
		opts.HydrateBelow = defaults.HydrateBelow
	}
	if opts.MaxFormSteps <= 0 {
		opts.MaxFormSteps = defaults.MaxFormSteps
	}
	if opts.SettleWait < 0 {
		opts.SettleWait = 0
	}
	return &Hunter{
		page:       page,
		discoverer: discoverer,
		analyst:    analyst,
		filler:     filler,
		opts:       opts,
		now:        time.Now,
		newID:      newAttemptID,
	}
}

// WithRecorder sets the tracker attempts are recorded to.
func (h *Hunter) WithRecorder(recorder AttemptRecorder) *Hunter {
	h.recorder = recorder
	return h
}

// WithSeenMarker sets the store handled jobs are marked in.
func (h *Hunter) WithSeenMarker(seen SeenMarker) *Hunter {
	h.seen = seen
	return h
}

// Hunt runs discovery, matching and applying for one search. Per-job failures are
// recorded as attempts and never stop the run; only fatal provider errors move it to
// PhaseError. Cancellation is honoured between jobs and ends the run in PhaseCompleted
// with Cancelled set.
func (h *Hunter) Hunt(ctx context.Context, profile *types.UserProfile, cfg types.SearchConfig, cb *Callbacks) HuntResult {
	result := HuntResult{
		Phase:      PhaseIdle,
		Discovered: []types.DiscoveredJob{},
		Matched:    []types.MatchedJob{},
		Attempts:   []types.ApplicationAttempt{},
		StartedAt:  h.now(),
	}

	if err := cfg.Validate(); err != nil {
		return h.fail(&result, cb, &HuntError{Message: "invalid search config", Cause: err})
	}

	h.enter(&result, cb, PhaseDiscovering, fmt.Sprintf("Searching for %q", cfg.SearchQuery))
	discoverCfg := cfg
	if cfg.MaxJobs > 0 {
		discoverCfg.MaxJobs = cfg.MaxJobs * DiscoveryOverfetch
	}
	jobs, err := h.discoverer.Discover(ctx, h.page, discoverCfg)
	if err != nil {
		if ctx.Err() != nil {
			return h.cancel(&result, cb)
		}
		return h.fail(&result, cb, &HuntError{Message: "discovery failed", Cause: err})
	}
	for _, job := range jobs {
		result.Discovered = append(result.Discovered, job)
		cb.jobDiscovered(job)
	}
	h.logf("Discovered %d jobs", len(jobs))

	h.enter(&result, cb, PhaseMatching, fmt.Sprintf("Matching %d jobs against profile", len(jobs)))
	for i, job := range jobs {
		if ctx.Err() != nil {
			return h.cancel(&result, cb)
		}
		cb.progress(Progress{Phase: PhaseMatching, Message: job.Title + " at " + job.Company, Current: i + 1, Total: len(jobs)})

		job = h.hydrate(ctx, job)
		match, err := h.analyst.MatchJobToProfile(ctx, job.Description, profile)
		if err != nil {
			if ctx.Err() != nil {
				return h.cancel(&result, cb)
			}
			if llm.IsFatal(err) {
				return h.fail(&result, cb, &HuntError{Message: "matching failed", Cause: err})
			}
			h.logf("Matching failed for %s: %v", job.ID, err)
			cb.reportError(fmt.Errorf("matching %s: %w", job.ID, err))
			continue
		}
		h.logf("%s at %s scored %d", job.Title, job.Company, match.Score)
		if match.Score >= h.opts.MinMatchScore {
			result.Matched = append(result.Matched, types.MatchedJob{Job: job, Score: match.Score})
			cb.jobMatched(job, match.Score)
		}
	}

	h.enter(&result, cb, PhaseApplying, fmt.Sprintf("Applying to %d matched jobs", len(result.Matched)))
	for i, matched := range result.Matched {
		if cfg.MaxJobs > 0 && len(result.Attempts) >= cfg.MaxJobs {
			h.logf("Reached job cap of %d", cfg.MaxJobs)
			break
		}
		if ctx.Err() != nil {
			return h.cancel(&result, cb)
		}
		cb.progress(Progress{Phase: PhaseApplying, Message: matched.Job.Title + " at " + matched.Job.Company, Current: i + 1, Total: len(result.Matched)})

		// a started job always runs to its end so no form is left half-typed
		attempt, err := h.applyAndRecord(context.WithoutCancel(ctx), profile, matched.Job, cb)
		result.Attempts = append(result.Attempts, attempt)
		if err != nil {
			return h.fail(&result, cb, &HuntError{Message: "applying stopped", Cause: err})
		}
	}

	if ctx.Err() != nil {
		return h.cancel(&result, cb)
	}
	h.enter(&result, cb, PhaseCompleted, fmt.Sprintf("Done: %d applied, %d failed, %d skipped, %d unprocessable",
		result.Count(types.OutcomeApplied), result.Count(types.OutcomeFailed),
		result.Count(types.OutcomeSkipped), result.Count(types.OutcomeUnprocessable)))
	result.FinishedAt = h.now()
	return result
}

// hydrate fetches the job page when the description is too thin to match against.
func (h *Hunter) hydrate(ctx context.Context, job types.DiscoveredJob) types.DiscoveredJob {
	if h.opts.HydrateBelow < 0 || len(job.Description) >= h.opts.HydrateBelow {
		return job
	}
	detail, err := h.discoverer.Hydrate(ctx, h.page, job)
	if err != nil {
		h.logf("Hydration failed for %s: %v", job.ID, err)
		return job
	}
	return types.MergeJob(job, detail)
}

// applyAndRecord runs one application and records it. The returned error is set only
// for fatal provider failures.
func (h *Hunter) applyAndRecord(ctx context.Context, profile *types.UserProfile, job types.DiscoveredJob, cb *Callbacks) (types.ApplicationAttempt, error) {
	cb.applicationStart(job)
	attempt, err := h.apply(ctx, profile, job, cb)

	if h.recorder != nil {
		if recErr := h.recorder.RecordAttempt(ctx, attempt); recErr != nil {
			h.logf("Failed to record attempt for %s: %v", job.ID, recErr)
			cb.reportError(fmt.Errorf("recording attempt %s: %w", attempt.ID, recErr))
		}
	}
	if h.seen != nil && err == nil {
		if seenErr := h.seen.MarkSeen(ctx, job, attempt.Outcome); seenErr != nil {
			h.logf("Failed to mark %s seen: %v", job.ID, seenErr)
		}
	}

	cb.applicationComplete(attempt)
	h.logf("%s at %s: %s %s", job.Title, job.Company, attempt.Outcome, attempt.Message)
	return attempt, err
}

func (h *Hunter) enter(result *HuntResult, cb *Callbacks, phase Phase, message string) {
	result.Phase = phase
	h.logf("%s: %s", phase, message)
	cb.progress(Progress{Phase: phase, Message: message})
}

func (h *Hunter) fail(result *HuntResult, cb *Callbacks, err error) HuntResult {
	result.Phase = PhaseError
	result.Err = err
	result.FinishedAt = h.now()
	log.Printf("[HUNT] Run stopped: %v", err)
	cb.reportError(err)
	cb.progress(Progress{Phase: PhaseError, Message: err.Error()})
	return *result
}

func (h *Hunter) cancel(result *HuntResult, cb *Callbacks) HuntResult {
	result.Cancelled = true
	h.enter(result, cb, PhaseCompleted, "Cancelled")
	result.FinishedAt = h.now()
	return *result
}

func (h *Hunter) logf(format string, args ...any) {
	if h.opts.Verbose {
		log.Printf("[HUNT] "+format, args...)
	}
}
