package hunt

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/job-hunter/internal/browser"
	"github.com/jonathan/job-hunter/internal/llm"
	"github.com/jonathan/job-hunter/internal/types"
)

// ApplyButtonSelectors locate the control that opens an application form from a job
// details page, most specific first.
var ApplyButtonSelectors = []string{
	`a[data-qa="show-page-apply"]`,
	`#apply_button`,
	`button[data-qa="btn-apply"]`,
	`a[data-automation-id="adventureButton"]`,
	`a[href*="/apply"]`,
	`button[aria-label*="Apply"]`,
	`a[aria-label*="Apply"]`,
	`.apply-button`,
}

func newAttemptID() string {
	return uuid.NewString()
}

// apply walks one job from its landing page to a submitted (or deliberately unsubmitted)
// form and returns the attempt describing how far it got. The error is set only for
// fatal provider failures; every other failure is expressed as the attempt outcome.
func (h *Hunter) apply(ctx context.Context, profile *types.UserProfile, job types.DiscoveredJob, cb *Callbacks) (types.ApplicationAttempt, error) {
	attempt := types.ApplicationAttempt{
		ID:          h.newID(),
		JobID:       job.ID,
		Job:         job,
		ProfileID:   profile.ID,
		FieldErrors: []string{},
		Timestamp:   h.now(),
	}
	finish := func(outcome types.Outcome, message string) types.ApplicationAttempt {
		attempt.Outcome = outcome
		attempt.Message = message
		return attempt
	}

	target := job.TargetURL()
	if err := h.page.Goto(ctx, target); err != nil {
		return finish(types.OutcomeFailed, "navigation failed: "+err.Error()), nil
	}

	analysis, degraded, err := h.classify(ctx)
	if err != nil {
		return finish(types.OutcomeFailed, "classification failed: "+err.Error()), fatalOnly(err)
	}
	if degraded != "" {
		return finish(types.OutcomeUnprocessable, "page could not be classified: "+degraded), nil
	}

	if analysis.PageType == types.PageJobDetails && !analysis.HasForm() {
		opened, err := h.openApplication(ctx)
		if err != nil {
			return finish(types.OutcomeFailed, "opening application failed: "+err.Error()), nil
		}
		if opened {
			analysis, degraded, err = h.classify(ctx)
			if err != nil {
				return finish(types.OutcomeFailed, "classification failed: "+err.Error()), fatalOnly(err)
			}
			if degraded != "" {
				return finish(types.OutcomeUnprocessable, "page could not be classified: "+degraded), nil
			}
		}
	}

	if analysis.LoginRequired || analysis.PageType == types.PageLogin {
		return finish(types.OutcomeFailed, "login required"), nil
	}
	if !analysis.HasForm() {
		return finish(types.OutcomeUnprocessable, fmt.Sprintf("no application form found (page type %s)", analysis.PageType)), nil
	}

	fill, analysis, err := h.fillSteps(ctx, profile, job, analysis)
	attempt.Fill = &fill
	attempt.FieldErrors = append(attempt.FieldErrors, fill.Errors...)
	if err != nil {
		return finish(types.OutcomeFailed, err.Error()), fatalOnly(err)
	}
	if !fill.Success {
		return finish(types.OutcomeFailed, "form fill failed: "+strings.Join(fill.Errors, "; ")), nil
	}
	if fill.FieldsFilled == 0 {
		return finish(types.OutcomeFailed, "no fields filled"), nil
	}
	if analysis.SubmitButton == "" {
		return finish(types.OutcomeFailed, "no submit button found"), nil
	}

	if h.opts.DryRun {
		return finish(types.OutcomeSkipped, fmt.Sprintf("dry run: %d fields filled, not submitted", fill.FieldsFilled)), nil
	}
	if !cb.confirm(ctx, job) {
		return finish(types.OutcomeSkipped, "submission declined"), nil
	}

	if err := h.click(ctx, analysis.SubmitButton); err != nil {
		return finish(types.OutcomeFailed, "submit failed: "+err.Error()), nil
	}
	return finish(types.OutcomeApplied, fmt.Sprintf("submitted with %d fields filled", fill.FieldsFilled)), nil
}

// fillSteps fills the current form and follows Next buttons through multi-step forms.
// It returns the merged fill result and the analysis of the last step.
func (h *Hunter) fillSteps(ctx context.Context, profile *types.UserProfile, job types.DiscoveredJob, analysis types.PageAnalysis) (types.FillResult, types.PageAnalysis, error) {
	fill := types.FillResult{Errors: []string{}}
	for step := 1; ; step++ {
		current := analysis
		fill.Merge(h.filler.FillForm(ctx, h.page, profile, job.Context(), &current))
		h.logf("Step %d of %s: %d fields filled so far", step, job.ID, fill.FieldsFilled)

		if analysis.SubmitButton != "" || analysis.NextButton == "" || step >= h.opts.MaxFormSteps {
			return fill, analysis, nil
		}

		if err := h.click(ctx, analysis.NextButton); err != nil {
			return fill, analysis, fmt.Errorf("next step failed: %w", err)
		}
		next, degraded, err := h.classify(ctx)
		if err != nil {
			return fill, analysis, &HuntError{Message: "classifying next step failed", Cause: err}
		}
		if degraded != "" || !next.HasForm() {
			// nothing more to fill; keep the last submit control we know of
			return fill, analysis, nil
		}
		analysis = next
	}
}

// openApplication clicks the first visible apply control on a job details page.
func (h *Hunter) openApplication(ctx context.Context) (bool, error) {
	el, selector, err := browser.FirstVisible(ctx, h.page, ApplyButtonSelectors)
	if err != nil || el == nil {
		return false, err
	}
	h.logf("Opening application via %s", selector)
	if err := el.Click(ctx); err != nil {
		return false, err
	}
	return true, h.page.Wait(ctx, h.opts.SettleWait)
}

func (h *Hunter) click(ctx context.Context, selector string) error {
	el, err := h.page.Query(ctx, selector)
	if err != nil {
		return err
	}
	if el == nil {
		return fmt.Errorf("element %s not found", selector)
	}
	if err := el.Click(ctx); err != nil {
		return err
	}
	return h.page.Wait(ctx, h.opts.SettleWait)
}

// classify returns the page analysis, or the degradation reason when the model output
// could not be used.
func (h *Hunter) classify(ctx context.Context) (types.PageAnalysis, string, error) {
	result, err := h.analyst.ClassifyPage(ctx, h.page)
	if err != nil {
		return types.PageAnalysis{}, "", err
	}
	if !result.IsOk() {
		return result.Analysis(), result.Reason(), nil
	}
	return result.Analysis(), "", nil
}

// fatalOnly passes err through only when it should stop the run.
func fatalOnly(err error) error {
	if llm.IsFatal(err) {
		return err
	}
	return nil
}
