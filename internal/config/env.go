package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names read by FromEnv.
const (
	EnvGeminiAPIKey      = "GEMINI_API_KEY"
	EnvSearchAPIKey      = "SEARCH_API_KEY"
	EnvSearchEngineID    = "SEARCH_ENGINE_ID"
	EnvDatabaseURL       = "DATABASE_URL"
	EnvRequestsPerSecond = "REQUESTS_PER_SECOND"
)

// FromEnv returns a Config holding only the values set in the environment.
// Use it as the defaults argument of MergeWithDefaults so file values win.
func FromEnv() (Config, error) {
	cfg := Config{
		APIKey:         os.Getenv(EnvGeminiAPIKey),
		SearchAPIKey:   os.Getenv(EnvSearchAPIKey),
		SearchEngineID: os.Getenv(EnvSearchEngineID),
		DatabaseURL:    os.Getenv(EnvDatabaseURL),
	}

	if rpsStr := os.Getenv(EnvRequestsPerSecond); rpsStr != "" {
		rps, err := strconv.ParseFloat(rpsStr, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %v", EnvRequestsPerSecond, err)
		}
		if rps <= 0 {
			return Config{}, fmt.Errorf("%s must be positive, got: %v", EnvRequestsPerSecond, rps)
		}
		cfg.RequestsPerSecond = rps
	}

	return cfg, nil
}
