package types

import "github.com/go-playground/validator/v10"

// SearchConfig describes what a hunt should look for.
type SearchConfig struct {
	SearchQuery      string          `json:"search_query" validate:"required"`
	Location         string          `json:"location,omitempty"`
	Remote           bool            `json:"remote,omitempty"`
	ExperienceLevel  string          `json:"experience_level,omitempty" validate:"omitempty,oneof=entry junior mid senior lead staff principal director"`
	MaxJobs          int             `json:"max_jobs,omitempty" validate:"gte=0"`
	ExcludeCompanies []string        `json:"exclude_companies,omitempty"`
	Companies        []CompanyTarget `json:"companies,omitempty" validate:"dive"`
}

// CompanyTarget is a company whose careers page should be scraped directly.
type CompanyTarget struct {
	Name       string `json:"name" validate:"required"`
	CareersURL string `json:"careers_url,omitempty" validate:"omitempty,url"`
	Website    string `json:"website,omitempty" validate:"omitempty,url"`
}

// Validate validates the SearchConfig using the validator.
func (c *SearchConfig) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
