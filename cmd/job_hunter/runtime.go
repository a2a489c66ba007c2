package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-hunter/internal/browser"
	"github.com/jonathan/job-hunter/internal/classifier"
	"github.com/jonathan/job-hunter/internal/config"
	"github.com/jonathan/job-hunter/internal/db"
	"github.com/jonathan/job-hunter/internal/discovery"
	"github.com/jonathan/job-hunter/internal/form"
	"github.com/jonathan/job-hunter/internal/hunt"
	"github.com/jonathan/job-hunter/internal/llm"
	"github.com/jonathan/job-hunter/internal/observability"
	"github.com/jonathan/job-hunter/internal/resolution"
	"github.com/jonathan/job-hunter/internal/store"
	"github.com/jonathan/job-hunter/internal/types"
)

// runtime holds the long-lived collaborators shared by every hunt of one invocation.
type runtime struct {
	cfg        config.Config
	client     llm.Client
	classifier *classifier.Classifier
	engine     *discovery.Engine
	browser    *browser.Browser
	seen       *store.SQLiteStore
	database   *db.DB
	attemptLog *os.File
	logRecord  *hunt.LogRecorder
	printer    *observability.Printer
}

func newRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set %s env var or use --api-key flag)", config.EnvGeminiAPIKey)
	}

	rt := &runtime{cfg: cfg, printer: observability.NewPrinter(os.Stdout)}
	ok := false
	defer func() {
		if !ok {
			rt.Close()
		}
	}()

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	rt.client = llm.WithRateLimit(client, cfg.RequestsPerSecond)
	rt.classifier = classifier.New(rt.client, classifier.Options{Verbose: cfg.Verbose})

	var searcher discovery.Searcher
	if cfg.HasSearch() {
		cs, err := discovery.NewCustomSearch(ctx, cfg.SearchAPIKey, cfg.SearchEngineID, cfg.RequestsPerSecond)
		if err != nil {
			return nil, err
		}
		searcher = cs
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %s/%s not set, web search disabled (careers pages only)\n",
			config.EnvSearchAPIKey, config.EnvSearchEngineID)
	}
	engineOpts := discovery.DefaultOptions()
	engineOpts.Verbose = cfg.Verbose
	rt.engine = discovery.NewEngine(searcher, rt.classifier, engineOpts)

	if cfg.SeenDB != "" {
		if err := ensureParent(cfg.SeenDB); err != nil {
			return nil, err
		}
		rt.seen, err = store.NewSQLiteStore(ctx, cfg.SeenDB)
		if err != nil {
			return nil, err
		}
		rt.engine.WithSeenStore(rt.seen)
	}

	if cfg.DatabaseURL != "" {
		rt.database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := rt.database.EnsureSchema(ctx); err != nil {
			return nil, err
		}
	} else if cfg.AttemptLog != "" {
		if err := ensureParent(cfg.AttemptLog); err != nil {
			return nil, err
		}
		rt.attemptLog, err = os.OpenFile(cfg.AttemptLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open attempt log: %w", err)
		}
		rt.logRecord = hunt.NewLogRecorder(rt.attemptLog)
	}

	browserOpts := browser.DefaultOptions()
	browserOpts.Headless = !cfg.ShowBrowser
	browserOpts.NavigationTimeout = time.Duration(cfg.NavigationTimeout) * time.Second
	browserOpts.Verbose = cfg.Verbose
	rt.browser, err = browser.Launch(ctx, browserOpts)
	if err != nil {
		return nil, err
	}

	ok = true
	return rt, nil
}

// Close releases everything newRuntime opened.
func (rt *runtime) Close() {
	if rt.browser != nil {
		rt.browser.Close()
	}
	if rt.seen != nil {
		_ = rt.seen.Close()
	}
	if rt.database != nil {
		rt.database.Close()
	}
	if rt.attemptLog != nil {
		_ = rt.attemptLog.Close()
	}
	if rt.client != nil {
		_ = rt.client.Close()
	}
}

// newFiller returns a filler with its own pacing source; pacing state is per tab.
func (rt *runtime) newFiller(seed uint64) *form.Filler {
	var pacing form.Pacing = form.NoPacing{}
	if !rt.cfg.NoPacing {
		pacing = form.NewHumanPacing(seed)
	}
	resolver := resolution.NewResolver(rt.classifier, rt.cfg.Verbose)
	return form.NewFiller(resolver, rt.classifier, pacing, form.Options{Verbose: rt.cfg.Verbose})
}

// newHunter builds a hunter driving the given tab.
func (rt *runtime) newHunter(page browser.Page, seed uint64) *hunt.Hunter {
	opts := hunt.DefaultOptions()
	opts.MinMatchScore = rt.cfg.MinMatchScore
	opts.DryRun = rt.cfg.DryRun
	opts.Verbose = rt.cfg.Verbose

	h := hunt.NewHunter(page, rt.engine, rt.classifier, rt.newFiller(seed), opts)
	if rt.seen != nil {
		h.WithSeenMarker(rt.seen)
	}
	return h
}

// runRecording ties a hunt to its attempt storage.
type runRecording struct {
	recorder hunt.AttemptRecorder
	finish   func(ctx context.Context, result hunt.HuntResult)
}

// startRun opens a run record when a database is configured and otherwise appends to
// the attempt log.
func (rt *runtime) startRun(ctx context.Context, query, profileID string) (runRecording, error) {
	if rt.database == nil {
		rec := runRecording{finish: func(context.Context, hunt.HuntResult) {}}
		if rt.logRecord != nil {
			rec.recorder = rt.logRecord
		}
		return rec, nil
	}

	runID, err := rt.database.CreateRun(ctx, query, profileID)
	if err != nil {
		return runRecording{}, err
	}
	return runRecording{
		recorder: rt.database.ForRun(runID),
		finish: func(ctx context.Context, result hunt.HuntResult) {
			if err := rt.database.CompleteRun(context.WithoutCancel(ctx), runID, runStatus(result), runCounts(result)); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to complete run %s: %v\n", runID, err)
			}
		},
	}, nil
}

func runStatus(result hunt.HuntResult) string {
	switch {
	case result.Phase == hunt.PhaseError:
		return db.RunStatusError
	case result.Cancelled:
		return db.RunStatusCancelled
	default:
		return db.RunStatusCompleted
	}
}

func runCounts(result hunt.HuntResult) db.RunCounts {
	return db.RunCounts{
		Applied:       result.Count(types.OutcomeApplied),
		Failed:        result.Count(types.OutcomeFailed),
		Skipped:       result.Count(types.OutcomeSkipped),
		Unprocessable: result.Count(types.OutcomeUnprocessable),
	}
}

// callbacks prints run events, prefixed with the query when several hunts share stdout.
func (rt *runtime) callbacks(out io.Writer, prefix string, confirm *confirmer) *hunt.Callbacks {
	tag := ""
	if prefix != "" {
		tag = "[" + prefix + "] "
	}
	cb := &hunt.Callbacks{
		OnJobMatched: func(job types.DiscoveredJob, score int) {
			_, _ = fmt.Fprintf(out, "%sMatched (%d): %s at %s\n", tag, score, job.Title, job.Company)
		},
		OnApplicationStart: func(job types.DiscoveredJob) {
			_, _ = fmt.Fprintf(out, "%sApplying: %s at %s\n", tag, job.Title, job.Company)
		},
		OnApplicationComplete: func(attempt types.ApplicationAttempt) {
			if rt.cfg.Verbose {
				rt.printer.PrintAttempt(&attempt)
				return
			}
			_, _ = fmt.Fprintf(out, "%s  -> %s %s\n", tag, attempt.Outcome, attempt.Message)
		},
		OnError: func(err error) {
			_, _ = fmt.Fprintf(os.Stderr, "%sWarning: %v\n", tag, err)
		},
		OnProgress: func(p hunt.Progress) {
			if p.Total > 0 {
				_, _ = fmt.Fprintf(out, "%s[%s] %s (%d/%d)\n", tag, p.Phase, p.Message, p.Current, p.Total)
				return
			}
			_, _ = fmt.Fprintf(out, "%s[%s] %s\n", tag, p.Phase, p.Message)
		},
	}
	if rt.cfg.Verbose {
		cb.OnJobDiscovered = func(job types.DiscoveredJob) {
			_, _ = fmt.Fprintf(out, "%sDiscovered: %s at %s (%s)\n", tag, job.Title, job.Company, job.Source)
		}
	}
	if confirm != nil {
		cb.OnConfirmationRequired = confirm.Confirm
	}
	return cb
}

// confirmer asks on the terminal before a form is submitted. Hunts running in
// parallel take turns at the prompt.
type confirmer struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

func newConfirmer(in io.Reader, out io.Writer) *confirmer {
	return &confirmer{in: bufio.NewReader(in), out: out}
}

// Confirm returns true only for an affirmative answer. EOF and cancellation decline.
func (c *confirmer) Confirm(ctx context.Context, job types.DiscoveredJob) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctx.Err() != nil {
		return false
	}
	_, _ = fmt.Fprintf(c.out, "Submit application for %s at %s?\n  %s\n[y/N]: ", job.Title, job.Company, job.TargetURL())
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return form.ParseBool(line)
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// pacingSeed derives a distinct pacing seed per tab.
func pacingSeed(i int) uint64 {
	return uint64(time.Now().UnixNano()) + uint64(uuid.New().ID()) + uint64(i)
}
