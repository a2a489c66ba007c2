// Package types provides type definitions for structured data used throughout the job-hunter system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// DiscoveredJob is a candidate job posting produced by discovery.
// Values are immutable once created; richer detail arrives as a new value merged with MergeJob.
type DiscoveredJob struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	Source       string    `json:"source"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Salary       string    `json:"salary,omitempty"`
	ApplyURL     string    `json:"apply_url,omitempty"`
}

// TargetURL returns the page an application should start from.
func (j DiscoveredJob) TargetURL() string {
	if j.ApplyURL != "" {
		return j.ApplyURL
	}
	return j.URL
}

// Context returns the job context handed to field resolution.
func (j DiscoveredJob) Context() JobContext {
	return JobContext{
		Title:       j.Title,
		Company:     j.Company,
		Description: j.Description,
	}
}

// MergeJob returns a new job combining base with the non-empty fields of detail.
// Identity fields (ID, URL, DiscoveredAt) always come from base.
func MergeJob(base, detail DiscoveredJob) DiscoveredJob {
	merged := base
	if detail.Title != "" {
		merged.Title = detail.Title
	}
	if detail.Company != "" {
		merged.Company = detail.Company
	}
	if detail.Location != "" {
		merged.Location = detail.Location
	}
	if len(detail.Description) > len(base.Description) {
		merged.Description = detail.Description
	}
	if detail.Salary != "" {
		merged.Salary = detail.Salary
	}
	if detail.ApplyURL != "" {
		merged.ApplyURL = detail.ApplyURL
	}
	return merged
}

// JobContext is the job information available while resolving form values.
type JobContext struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// MatchedJob pairs a discovered job with its profile match score.
type MatchedJob struct {
	Job   DiscoveredJob `json:"job"`
	Score int           `json:"score"`
}
