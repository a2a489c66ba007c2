// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/job-hunter/internal/classifier"
	"github.com/jonathan/job-hunter/internal/hunt"
	"github.com/jonathan/job-hunter/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = types.Truncate(line, boxWidth-7) + "..."
		}
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func pad(s string) string {
	if n := boxWidth - 4 - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

// PrintPageAnalysis outputs what the classifier saw on a page.
func (p *Printer) PrintPageAnalysis(url string, analysis *types.PageAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:   %s\n", url))
	sb.WriteString(fmt.Sprintf("Type:  %s\n", analysis.PageType))
	if analysis.Title != "" {
		sb.WriteString(fmt.Sprintf("Title: %s\n", analysis.Title))
	}
	if analysis.LoginRequired {
		sb.WriteString("Login required\n")
	}

	if len(analysis.Jobs) > 0 {
		sb.WriteString(fmt.Sprintf("\nListed jobs (%d):\n", len(analysis.Jobs)))
		count := min(len(analysis.Jobs), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", analysis.Jobs[i].Title))
		}
		if len(analysis.Jobs) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.Jobs)-maxItemsToShow))
		}
	}

	if len(analysis.FormFields) > 0 {
		sb.WriteString(fmt.Sprintf("\nForm fields (%d):\n", len(analysis.FormFields)))
		for _, field := range analysis.FormFields {
			marker := " "
			if field.Required {
				marker = "*"
			}
			sb.WriteString(fmt.Sprintf(" %s %-9s %s\n", marker, field.Type, field.Label))
		}
	}
	if analysis.NextButton != "" {
		sb.WriteString(fmt.Sprintf("Next:   %s\n", analysis.NextButton))
	}
	if analysis.SubmitButton != "" {
		sb.WriteString(fmt.Sprintf("Submit: %s\n", analysis.SubmitButton))
	}
	for _, e := range analysis.Errors {
		sb.WriteString(fmt.Sprintf("! %s\n", e))
	}

	p.printBox("PAGE ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDiscoveredJobs outputs the jobs found by discovery.
func (p *Printer) PrintDiscoveredJobs(jobs []types.DiscoveredJob) {
	if len(jobs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d jobs:\n\n", len(jobs)))
	for i, job := range jobs {
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, job.Title))
		sb.WriteString(fmt.Sprintf("    %s · %s\n", job.Company, job.Source))
		sb.WriteString(fmt.Sprintf("    %s\n", job.URL))
		if i < len(jobs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("DISCOVERED JOBS", sb.String())
}

// PrintMatch outputs a job's match score and the skills behind it.
func (p *Printer) PrintMatch(job types.DiscoveredJob, match classifier.MatchResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s at %s\n", job.Title, job.Company))
	sb.WriteString(fmt.Sprintf("Score: %d/100\n", match.Score))
	if len(match.StrongMatches) > 0 {
		sb.WriteString(fmt.Sprintf("Strong: %s\n", strings.Join(match.StrongMatches, ", ")))
	}
	if len(match.MissingSkills) > 0 {
		sb.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(match.MissingSkills, ", ")))
	}
	if match.Analysis != "" {
		sb.WriteString("\n" + match.Analysis)
	}

	p.printBox("MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFillResult outputs the audit trail of a form fill.
func (p *Printer) PrintFillResult(result *types.FillResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	status := "✓ success"
	if !result.Success {
		status = "✗ failed"
	}
	sb.WriteString(fmt.Sprintf("%s: %d filled, %d skipped\n", status, result.FieldsFilled, result.FieldsSkipped))

	if len(result.Entries) > 0 {
		sb.WriteString("\n")
	}
	for _, entry := range result.Entries {
		name := entry.Label
		if name == "" {
			name = entry.Selector
		}
		line := fmt.Sprintf("%-14s %s", entry.Status, name)
		if entry.Value != "" {
			line += fmt.Sprintf(" = %q (%s)", entry.Value, entry.Source)
		}
		sb.WriteString(line + "\n")
		if entry.Detail != "" {
			sb.WriteString(fmt.Sprintf("               %s\n", entry.Detail))
		}
	}

	if len(result.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		for _, e := range result.Errors {
			sb.WriteString(fmt.Sprintf("  • %s\n", e))
		}
	}

	p.printBox("FORM FILL", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAttempt outputs one application attempt.
func (p *Printer) PrintAttempt(attempt *types.ApplicationAttempt) {
	if attempt == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s at %s\n", attempt.Job.Title, attempt.Job.Company))
	sb.WriteString(fmt.Sprintf("Outcome: %s\n", attempt.Outcome))
	if attempt.Message != "" {
		sb.WriteString(fmt.Sprintf("Message: %s\n", attempt.Message))
	}
	sb.WriteString(fmt.Sprintf("URL:     %s", attempt.Job.TargetURL()))

	p.printBox("APPLICATION", sb.String())
	p.PrintFillResult(attempt.Fill)
}

// PrintHuntResult outputs the summary of a run.
func (p *Printer) PrintHuntResult(query string, result *hunt.HuntResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Search:     %s\n", query))
	sb.WriteString(fmt.Sprintf("Phase:      %s", result.Phase))
	if result.Cancelled {
		sb.WriteString(" (cancelled)")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Discovered: %d\n", len(result.Discovered)))
	sb.WriteString(fmt.Sprintf("Matched:    %d\n", len(result.Matched)))
	sb.WriteString(fmt.Sprintf("Applied:    %d\n", result.Count(types.OutcomeApplied)))
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", result.Count(types.OutcomeFailed)))
	sb.WriteString(fmt.Sprintf("Skipped:    %d\n", result.Count(types.OutcomeSkipped)))
	sb.WriteString(fmt.Sprintf("Unprocessable: %d", result.Count(types.OutcomeUnprocessable)))
	if !result.FinishedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("\nDuration:   %s", result.FinishedAt.Sub(result.StartedAt).Round(time.Second)))
	}
	if result.Err != nil {
		sb.WriteString(fmt.Sprintf("\nError:      %v", result.Err))
	}

	p.printBox("HUNT SUMMARY", sb.String())
}
