package hunt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/job-hunter/internal/browser"
	"github.com/jonathan/job-hunter/internal/browser/browsertest"
	"github.com/jonathan/job-hunter/internal/classifier"
	"github.com/jonathan/job-hunter/internal/form"
	"github.com/jonathan/job-hunter/internal/resolution"
	"github.com/jonathan/job-hunter/internal/types"
)

type fakeDiscoverer struct {
	jobs          []types.DiscoveredJob
	err           error
	scraped       []types.DiscoveredJob
	scrapeErr     error
	scrapeTargets []types.CompanyTarget
	scrapeQueries []string
	hydrated      map[string]types.DiscoveredJob
	hydrateCalls  []string
	discoverCalls int
	discoverCfgs  []types.SearchConfig
}

func (d *fakeDiscoverer) Discover(_ context.Context, _ browser.Page, cfg types.SearchConfig) ([]types.DiscoveredJob, error) {
	d.discoverCalls++
	d.discoverCfgs = append(d.discoverCfgs, cfg)
	return d.jobs, d.err
}

func (d *fakeDiscoverer) ScrapeCareers(_ context.Context, _ browser.Page, target types.CompanyTarget, query string) ([]types.DiscoveredJob, error) {
	d.scrapeTargets = append(d.scrapeTargets, target)
	d.scrapeQueries = append(d.scrapeQueries, query)
	return d.scraped, d.scrapeErr
}

func (d *fakeDiscoverer) Hydrate(_ context.Context, _ browser.Page, job types.DiscoveredJob) (types.DiscoveredJob, error) {
	d.hydrateCalls = append(d.hydrateCalls, job.ID)
	detail, ok := d.hydrated[job.ID]
	if !ok {
		return types.DiscoveredJob{}, errors.New("no detail")
	}
	return detail, nil
}

type fakeAnalyst struct {
	pages        map[string]classifier.ParseResult
	classifyErrs map[string]error
	scores       map[string]int
	matchErrs    map[string]error
	careersURL   string
	careersErr   error
	descriptions []string
	classified   []string
}

func (a *fakeAnalyst) ClassifyPage(ctx context.Context, page browser.Page) (classifier.ParseResult, error) {
	url, _ := page.URL(ctx)
	a.classified = append(a.classified, url)
	if err := a.classifyErrs[url]; err != nil {
		return classifier.ParseResult{}, err
	}
	if result, ok := a.pages[url]; ok {
		return result, nil
	}
	return classifier.Degraded("no scripted page for " + url), nil
}

func (a *fakeAnalyst) MatchJobToProfile(_ context.Context, description string, _ *types.UserProfile) (classifier.MatchResult, error) {
	a.descriptions = append(a.descriptions, description)
	if err := a.matchErrs[description]; err != nil {
		return classifier.MatchResult{}, err
	}
	return classifier.MatchResult{Score: a.scores[description]}, nil
}

func (a *fakeAnalyst) ResolveCareersPage(_ context.Context, _, _ string) (string, error) {
	return a.careersURL, a.careersErr
}

type memRecorder struct {
	attempts []types.ApplicationAttempt
	err      error
}

func (r *memRecorder) RecordAttempt(_ context.Context, attempt types.ApplicationAttempt) error {
	r.attempts = append(r.attempts, attempt)
	return r.err
}

type memSeen struct {
	marked map[string]types.Outcome
}

func (s *memSeen) MarkSeen(_ context.Context, job types.DiscoveredJob, outcome types.Outcome) error {
	s.marked[job.ID] = outcome
	return nil
}

// scenario wires a Hunter to scripted pages keyed by URL.
type scenario struct {
	page       *browsertest.Page
	analyst    *fakeAnalyst
	discoverer *fakeDiscoverer
	recorder   *memRecorder
	seen       *memSeen
	setups     map[string]func(p *browsertest.Page)
	gotoErrs   map[string]error
	submitted  []string
	opts       Options
}

func newScenario() *scenario {
	s := &scenario{
		page: browsertest.NewPage("about:blank"),
		analyst: &fakeAnalyst{
			pages:        map[string]classifier.ParseResult{},
			classifyErrs: map[string]error{},
			scores:       map[string]int{},
			matchErrs:    map[string]error{},
		},
		discoverer: &fakeDiscoverer{hydrated: map[string]types.DiscoveredJob{}},
		recorder:   &memRecorder{},
		seen:       &memSeen{marked: map[string]types.Outcome{}},
		setups:     map[string]func(p *browsertest.Page){},
		gotoErrs:   map[string]error{},
		opts:       Options{HydrateBelow: -1},
	}
	s.page.OnGoto = func(p *browsertest.Page, url string) error {
		if err := s.gotoErrs[url]; err != nil {
			return err
		}
		p.Reset()
		if setup := s.setups[url]; setup != nil {
			setup(p)
		}
		return nil
	}
	return s
}

func (s *scenario) hunter() *Hunter {
	filler := form.NewFiller(resolution.NewResolver(nil, false), nil, form.NoPacing{}, form.Options{})
	h := NewHunter(s.page, s.discoverer, s.analyst, filler, s.opts)
	h.newID = func() string { return fmt.Sprintf("attempt-%d", len(s.recorder.attempts)+1) }
	return h.WithRecorder(s.recorder).WithSeenMarker(s.seen)
}

func jobURL(id string) string {
	return "https://acme.com/jobs/" + id
}

func longDescription(id string) string {
	return id + ": " + strings.Repeat("Build reliable distributed systems in Go. ", 8)
}

// addJob scripts a discovered job whose landing page classifies as result.
func (s *scenario) addJob(id string, score int, result classifier.ParseResult, setup func(p *browsertest.Page)) types.DiscoveredJob {
	job := types.DiscoveredJob{
		ID:          id,
		Title:       "Backend Engineer " + id,
		Company:     "Acme",
		URL:         jobURL(id),
		Description: longDescription(id),
	}
	s.analyst.scores[job.Description] = score
	s.analyst.pages[job.URL] = result
	s.setups[job.URL] = setup
	s.discoverer.jobs = append(s.discoverer.jobs, job)
	return job
}

// addFormJob scripts a job whose landing page is a one-field application form.
func (s *scenario) addFormJob(id string, score int) types.DiscoveredJob {
	return s.addJob(id, score, classifier.Ok(formAnalysis("#submit")), func(p *browsertest.Page) {
		s.addForm(p, id)
	})
}

func (s *scenario) addForm(p *browsertest.Page, id string) {
	p.Add("#first_name", browsertest.Input(""))
	submit := p.Add("#submit", browsertest.Button())
	submit.OnClick = func() { s.submitted = append(s.submitted, id) }
}

func formAnalysis(submit string) types.PageAnalysis {
	return types.PageAnalysis{
		PageType: types.PageApplicationForm,
		FormFields: []types.FormField{
			{Selector: "#first_name", Type: types.FieldText, Label: "First name", Required: true},
		},
		SubmitButton: submit,
	}
}

func testProfile() *types.UserProfile {
	return &types.UserProfile{
		ID:        "profile-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Contact:   types.Contact{Email: "ada@example.com"},
	}
}

func testConfig() types.SearchConfig {
	return types.SearchConfig{SearchQuery: "backend engineer"}
}

func outcomes(attempts []types.ApplicationAttempt) []types.Outcome {
	out := make([]types.Outcome, len(attempts))
	for i, a := range attempts {
		out[i] = a.Outcome
	}
	return out
}

func phases(events []Progress) []Phase {
	var out []Phase
	for _, e := range events {
		if len(out) == 0 || out[len(out)-1] != e.Phase {
			out = append(out, e.Phase)
		}
	}
	return out
}
