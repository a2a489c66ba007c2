// Package main provides the entry point for the job_hunter command line tool.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_hunter",
	Short: "Find job postings and fill their application forms",
	Long: `job_hunter discovers job postings through web search and company careers pages, scores them against your
profile, and fills their application forms in a headless browser, recording what it typed into every field and why.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
