package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-hunter/internal/hunt"
)

var (
	huntSearch   searchFlags
	huntMinScore int
	huntDryRun   bool
	huntConfirm  bool
	huntParallel int
)

var huntCmd = &cobra.Command{
	Use:   "hunt",
	Short: "Discover, match and apply to jobs",
	Long: `Runs a full hunt for every search: discovers postings, scores each one against the profile,
and fills the application form of every job scoring at least --min-score.

Searches come from the config file, or from --query for a single search. Several searches
run concurrently with --parallel, each in its own browser tab.`,
	RunE: runHunt,
}

func init() {
	rootCmd.AddCommand(huntCmd)

	huntSearch.register(huntCmd.Flags())
	huntCmd.Flags().IntVar(&huntMinScore, "min-score", 0, "Minimum match score (0-100) to apply")
	huntCmd.Flags().BoolVar(&huntDryRun, "dry-run", false, "Fill forms but never submit them")
	huntCmd.Flags().BoolVar(&huntConfirm, "confirm", false, "Ask before submitting each application")
	huntCmd.Flags().IntVar(&huntParallel, "parallel", 0, "Number of searches to run concurrently")
}

func runHunt(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("min-score") {
		cfg.MinMatchScore = huntMinScore
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = huntDryRun
	}
	if flags.Changed("confirm") {
		cfg.Confirm = huntConfirm
	}
	if flags.Changed("parallel") {
		cfg.Parallel = huntParallel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	searches, err := huntSearch.searches(cmd, &cfg)
	if err != nil {
		return err
	}
	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	var confirm *confirmer
	if cfg.Confirm {
		confirm = newConfirmer(os.Stdin, os.Stdout)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Hunting for %s %s: %d search(es), min score %d", profile.FirstName, profile.LastName, len(searches), cfg.MinMatchScore)
	if cfg.DryRun {
		_, _ = fmt.Fprint(os.Stdout, " (dry run)")
	}
	_, _ = fmt.Fprintln(os.Stdout)

	results := make([]hunt.HuntResult, len(searches))
	var g errgroup.Group
	g.SetLimit(max(cfg.Parallel, 1))
	for i, search := range searches {
		g.Go(func() error {
			page, err := rt.browser.NewPage()
			if err != nil {
				return err
			}
			defer page.Close()

			run, err := rt.startRun(ctx, search.SearchQuery, profile.ID)
			if err != nil {
				return err
			}

			prefix := ""
			if len(searches) > 1 {
				prefix = search.SearchQuery
			}
			hunter := rt.newHunter(page, pacingSeed(i))
			if run.recorder != nil {
				hunter.WithRecorder(run.recorder)
			}
			results[i] = hunter.Hunt(ctx, profile, search, rt.callbacks(os.Stdout, prefix, confirm))
			run.finish(ctx, results[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i := range results {
		rt.printer.PrintHuntResult(searches[i].SearchQuery, &results[i])
		if results[i].Phase == hunt.PhaseError {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d hunt(s) stopped with an error", failed, len(results))
	}
	return nil
}
