package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/job-hunter/internal/types"
)

// LoadProfile reads a user profile from a YAML file. JSON files load too since YAML
// is a superset; keys follow the camelCase yaml tags of types.UserProfile.
// A relative resumePath is resolved against the profile's directory and a missing id
// is derived from the email address so it stays stable across runs.
func LoadProfile(path string) (*types.UserProfile, error) {
	if path == "" {
		return nil, fmt.Errorf("profile path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var profile types.UserProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if err := validator.New().Struct(&profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	if profile.ResumePath != "" && !filepath.IsAbs(profile.ResumePath) {
		profile.ResumePath = filepath.Join(filepath.Dir(path), profile.ResumePath)
	}
	if profile.ID == "" {
		email := strings.ToLower(strings.TrimSpace(profile.Contact.Email))
		profile.ID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
	}

	return &profile, nil
}
