// Package discovery finds candidate job postings through web search and by scraping
// company careers pages, and normalizes them into DiscoveredJob values.
package discovery

import "fmt"

// DiscoveryError represents a failed search or careers scrape
type DiscoveryError struct {
	Message string
	Cause   error
}

func (e *DiscoveryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("discovery error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("discovery error: %s", e.Message)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Cause
}
