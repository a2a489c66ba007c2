package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-hunter/internal/hunt"
)

var (
	applyDryRun  bool
	applyConfirm bool
)

var applyCmd = &cobra.Command{
	Use:   "apply <company> <job title>",
	Short: "Apply to one job at one company",
	Long: `Finds the company's careers page, picks the posting that best matches the job title,
and fills its application form.

Example:
  job_hunter apply Acme "Senior Backend Engineer" --profile profile.yaml --dry-run`,
	Args: cobra.MinimumNArgs(2),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Fill the form but do not submit it")
	applyCmd.Flags().BoolVar(&applyConfirm, "confirm", false, "Ask before submitting")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = applyDryRun
	}
	if cmd.Flags().Changed("confirm") {
		cfg.Confirm = applyConfirm
	}
	profile, err := loadProfile(cfg)
	if err != nil {
		return err
	}

	company := args[0]
	jobTitle := strings.Join(args[1:], " ")

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

	var confirm *confirmer
	if cfg.Confirm {
		confirm = newConfirmer(os.Stdin, os.Stdout)
	}

	run, err := rt.startRun(ctx, jobTitle+" @ "+company, profile.ID)
	if err != nil {
		return err
	}
	hunter := rt.newHunter(page, pacingSeed(0))
	if run.recorder != nil {
		hunter.WithRecorder(run.recorder)
	}

	attempt, err := hunter.QuickApply(ctx, company, jobTitle, profile, rt.callbacks(os.Stdout, "", confirm))
	result := hunt.HuntResult{Phase: hunt.PhaseCompleted}
	if attempt != nil {
		result.Attempts = append(result.Attempts, *attempt)
	}
	if err != nil {
		result.Phase = hunt.PhaseError
	}
	run.finish(ctx, result)

	if err != nil {
		if attempt != nil {
			rt.printer.PrintAttempt(attempt)
		}
		return err
	}

	rt.printer.PrintAttempt(attempt)
	return nil
}
