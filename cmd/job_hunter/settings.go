package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/job-hunter/internal/config"
	"github.com/jonathan/job-hunter/internal/types"
)

var (
	configPath  string
	profilePath string
	apiKey      string
	databaseURL string
	seenDBPath  string
	verbose     bool
	showBrowser bool
	noPacing    bool
	navTimeout  int
)

func init() {
	// Config file flag (processed first)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	flags.StringVarP(&profilePath, "profile", "p", "", "Path to the profile YAML/JSON file")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	flags.StringVar(&apiKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	flags.StringVar(&databaseURL, "db-url", "", "PostgreSQL connection URL for attempt tracking (optional, defaults to DATABASE_URL env var)")
	flags.StringVar(&seenDBPath, "seen-db", "", "SQLite file remembering handled jobs")

	flags.BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	flags.BoolVar(&showBrowser, "show-browser", false, "Run Chrome with a visible window")
	flags.BoolVar(&noPacing, "no-pacing", false, "Type without human-like delays")
	flags.IntVar(&navTimeout, "timeout", 0, "Page load timeout in seconds")
}

// loadSettings resolves configuration: config file, then flags that were explicitly
// set, then environment variables, then built-in defaults.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Profile = profilePath
	}
	if flags.Changed("api-key") {
		cfg.APIKey = apiKey
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("seen-db") {
		cfg.SeenDB = seenDBPath
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("show-browser") {
		cfg.ShowBrowser = showBrowser
	}
	if flags.Changed("no-pacing") {
		cfg.NoPacing = noPacing
	}
	if flags.Changed("timeout") {
		cfg.NavigationTimeout = navTimeout
	}

	env, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	cfg = cfg.MergeWithDefaults(env)
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Verbose && configPath != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", configPath)
	}
	return cfg, nil
}

// searchFlags are the flags describing a single search.
type searchFlags struct {
	query     string
	location  string
	remote    bool
	level     string
	maxJobs   int
	exclude   []string
	companies []string
}

func (s *searchFlags) register(flags *pflag.FlagSet) {
	flags.StringVarP(&s.query, "query", "q", "", "Search query, e.g. \"backend engineer\" (replaces the searches in the config file)")
	flags.StringVarP(&s.location, "location", "l", "", "Location to search in")
	flags.BoolVar(&s.remote, "remote", false, "Only remote jobs")
	flags.StringVar(&s.level, "level", "", "Experience level (entry, junior, mid, senior, lead, staff, principal, director)")
	flags.IntVar(&s.maxJobs, "max-jobs", 0, "Maximum jobs to apply to (0 = no limit)")
	flags.StringSliceVar(&s.exclude, "exclude", nil, "Companies to skip (repeatable)")
	flags.StringSliceVar(&s.companies, "company", nil, "Company whose careers page to scrape (repeatable)")
}

// apply replaces cfg.Searches with the search described by the flags when --query
// was given, and otherwise overrides the individual fields that were set.
func (s *searchFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("query") {
		cfg.Searches = []types.SearchConfig{{SearchQuery: s.query}}
	}
	for i := range cfg.Searches {
		search := &cfg.Searches[i]
		if flags.Changed("location") {
			search.Location = s.location
		}
		if flags.Changed("remote") {
			search.Remote = s.remote
		}
		if flags.Changed("level") {
			search.ExperienceLevel = s.level
		}
		if flags.Changed("max-jobs") {
			search.MaxJobs = s.maxJobs
		}
		if flags.Changed("exclude") {
			search.ExcludeCompanies = s.exclude
		}
		if flags.Changed("company") {
			search.Companies = nil
			for _, name := range s.companies {
				search.Companies = append(search.Companies, types.CompanyTarget{Name: name})
			}
		}
	}
}

// searches returns the validated searches to run.
func (s *searchFlags) searches(cmd *cobra.Command, cfg *config.Config) ([]types.SearchConfig, error) {
	s.apply(cmd, cfg)
	if len(cfg.Searches) == 0 {
		return nil, fmt.Errorf("--query is required (via flag or config searches)")
	}
	for i := range cfg.Searches {
		if err := cfg.Searches[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid search %d: %w", i+1, err)
		}
	}
	return cfg.Searches, nil
}

func loadProfile(cfg config.Config) (*types.UserProfile, error) {
	if cfg.Profile == "" {
		return nil, fmt.Errorf("--profile is required (via flag or config)")
	}
	return config.LoadProfile(cfg.Profile)
}
