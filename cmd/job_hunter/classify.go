package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-hunter/internal/types"
)

var (
	classifyFill bool
	classifyJSON bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <url>",
	Short: "Classify a page and optionally fill its form",
	Long: `Opens the URL, asks the model what kind of page it is and which form fields it holds,
and prints the analysis. With --fill, the form is filled from the profile and the
per-field report is printed. Nothing is ever submitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVar(&classifyFill, "fill", false, "Fill the form from the profile (never submits)")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print the analysis as JSON")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	var profile *types.UserProfile
	if classifyFill {
		if profile, err = loadProfile(cfg); err != nil {
			return err
		}
	}
	url := args[0]

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

	if err := page.Goto(ctx, url); err != nil {
		return err
	}
	parsed, err := rt.classifier.ClassifyPage(ctx, page)
	if err != nil {
		return err
	}
	if !parsed.IsOk() {
		return fmt.Errorf("page could not be classified: %s", parsed.Reason())
	}
	analysis := parsed.Analysis()

	if classifyJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			return err
		}
	} else {
		rt.printer.PrintPageAnalysis(url, &analysis)
	}

	if profile == nil {
		return nil
	}
	if !analysis.HasForm() {
		return fmt.Errorf("no form to fill on %s", url)
	}
	result := rt.newFiller(pacingSeed(0)).FillForm(ctx, page, profile, types.JobContext{}, &analysis)
	rt.printer.PrintFillResult(&result)
	if !result.Success {
		return fmt.Errorf("form fill failed: %d field error(s)", len(result.Errors))
	}
	return nil
}
