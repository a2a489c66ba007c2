// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-hunter/internal/types"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Profile  string               `json:"profile,omitempty"`                  // Path to the YAML or JSON profile
	Searches []types.SearchConfig `json:"searches,omitempty" validate:"dive"` // One hunt per entry

	// Run behaviour
	MinMatchScore     int  `json:"min_match_score,omitempty" validate:"gte=0,lte=100"` // Minimum match score to apply
	DryRun            bool `json:"dry_run,omitempty"`                                  // Fill forms but never submit
	Confirm           bool `json:"confirm,omitempty"`                                  // Ask before every submit
	Parallel          int  `json:"parallel,omitempty" validate:"gte=0,lte=8"`          // Concurrent hunts, one browser tab each
	NoPacing          bool `json:"no_pacing,omitempty"`                                // Disable human-like typing delays
	ShowBrowser       bool `json:"show_browser,omitempty"`                             // Run Chrome with a visible window
	NavigationTimeout int  `json:"navigation_timeout,omitempty" validate:"gte=0"`      // Seconds per page load
	Verbose           bool `json:"verbose,omitempty"`                                  // Print detailed debug information

	// Storage
	SeenDB      string `json:"seen_db,omitempty"`      // SQLite file of already handled jobs
	AttemptLog  string `json:"attempt_log,omitempty"`  // JSON-lines attempt log when no database is set
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Credentials
	APIKey            string  `json:"api_key,omitempty"`                              // Gemini API key
	SearchAPIKey      string  `json:"search_api_key,omitempty"`                       // Programmable Search API key
	SearchEngineID    string  `json:"search_engine_id,omitempty"`                     // Programmable Search engine ID
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" validate:"gte=0"` // Model and search rate limit
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		MinMatchScore:     60,
		Parallel:          1,
		NavigationTimeout: 45,
		SeenDB:            filepath.Join(".job_hunter", "seen.db"),
		AttemptLog:        filepath.Join(".job_hunter", "attempts.jsonl"),
		RequestsPerSecond: 1,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}

	if (c.SearchAPIKey == "") != (c.SearchEngineID == "") {
		return fmt.Errorf("config error: 'search_api_key' and 'search_engine_id' must be set together")
	}

	return nil
}

// HasSearch reports whether web search credentials are configured.
func (c *Config) HasSearch() bool {
	return c.SearchAPIKey != "" && c.SearchEngineID != ""
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.SeenDB == "" {
		result.SeenDB = defaults.SeenDB
	}
	if result.AttemptLog == "" {
		result.AttemptLog = defaults.AttemptLog
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.SearchAPIKey == "" {
		result.SearchAPIKey = defaults.SearchAPIKey
	}
	if result.SearchEngineID == "" {
		result.SearchEngineID = defaults.SearchEngineID
	}
	if len(result.Searches) == 0 {
		result.Searches = defaults.Searches
	}

	// Numeric fields: use default if zero
	if result.MinMatchScore == 0 {
		result.MinMatchScore = defaults.MinMatchScore
	}
	if result.Parallel == 0 {
		result.Parallel = defaults.Parallel
	}
	if result.NavigationTimeout == 0 {
		result.NavigationTimeout = defaults.NavigationTimeout
	}
	if result.RequestsPerSecond == 0 {
		result.RequestsPerSecond = defaults.RequestsPerSecond
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
