package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-hunter/internal/hunt"
	"github.com/jonathan/job-hunter/internal/types"
)

var (
	discoverSearch searchFlags
	discoverJSON   bool
	discoverMatch  bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List job postings without applying",
	Long: `Runs discovery for every search and prints the postings found. With --match, each posting
is also scored against the profile.`,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverSearch.register(discoverCmd.Flags())
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Print postings as JSON")
	discoverCmd.Flags().BoolVar(&discoverMatch, "match", false, "Score each posting against the profile")
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	searches, err := discoverSearch.searches(cmd, &cfg)
	if err != nil {
		return err
	}
	var profile *types.UserProfile
	if discoverMatch {
		if profile, err = loadProfile(cfg); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	page, err := rt.browser.NewPage()
	if err != nil {
		return err
	}
	defer page.Close()

	var all []types.DiscoveredJob
	for _, search := range searches {
		jobs, err := rt.engine.Discover(ctx, page, search)
		if err != nil {
			return fmt.Errorf("discovery for %q failed: %w", search.SearchQuery, err)
		}
		all = append(all, jobs...)
	}

	if discoverJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(all)
	}

	rt.printer.PrintDiscoveredJobs(all)
	if profile == nil {
		return nil
	}
	for _, job := range all {
		if len(job.Description) < hunt.DefaultHydrateBelow {
			if hydrated, err := rt.engine.Hydrate(ctx, page, job); err == nil {
				job = hydrated
			}
		}
		match, err := rt.classifier.MatchJobToProfile(ctx, job.Description, profile)
		if err != nil {
			return err
		}
		rt.printer.PrintMatch(job, match)
	}
	return nil
}
