package hunt

import (
	"context"
	"fmt"

	"github.com/jonathan/job-hunter/internal/types"
)

// QuickApply finds company's careers page, picks the first listing matching jobTitle and
// applies to it. It returns ErrNoCareersPage or ErrNoMatchingJob when there is nothing
// to apply to. A returned attempt has always been recorded.
func (h *Hunter) QuickApply(ctx context.Context, company, jobTitle string, profile *types.UserProfile, cb *Callbacks) (*types.ApplicationAttempt, error) {
	cb.progress(Progress{Phase: PhaseDiscovering, Message: "Finding careers page for " + company})
	careersURL, err := h.analyst.ResolveCareersPage(ctx, company, "")
	if err != nil {
		return nil, &HuntError{Message: "resolving careers page for " + company, Cause: err}
	}
	if careersURL == "" {
		return nil, fmt.Errorf("%w for %s", ErrNoCareersPage, company)
	}
	h.logf("Careers page for %s: %s", company, careersURL)

	target := types.CompanyTarget{Name: company, CareersURL: careersURL}
	jobs, err := h.discoverer.ScrapeCareers(ctx, h.page, target, jobTitle)
	if err != nil {
		return nil, &HuntError{Message: "scraping careers page for " + company, Cause: err}
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("%w: %q at %s", ErrNoMatchingJob, jobTitle, company)
	}

	job := jobs[0]
	cb.jobDiscovered(job)
	job = h.hydrate(ctx, job)

	cb.progress(Progress{Phase: PhaseApplying, Message: job.Title + " at " + job.Company})
	attempt, err := h.applyAndRecord(ctx, profile, job, cb)
	if err != nil {
		cb.reportError(err)
		return &attempt, &HuntError{Message: "applying stopped", Cause: err}
	}
	return &attempt, nil
}
