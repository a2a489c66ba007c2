package classifier

import "github.com/jonathan/job-hunter/internal/types"

const defaultDegradedReason = "unparseable classifier response"

// ParseResult is either a usable PageAnalysis or a degraded result carrying the reason
// the model output could not be used.
type ParseResult struct {
	analysis types.PageAnalysis
	reason   string
	ok       bool
}

// Ok wraps a successfully parsed analysis.
func Ok(analysis types.PageAnalysis) ParseResult {
	if analysis.Errors == nil {
		analysis.Errors = []string{}
	}
	return ParseResult{analysis: analysis, ok: true}
}

// Degraded records that the response could not be parsed.
func Degraded(reason string) ParseResult {
	if reason == "" {
		reason = defaultDegradedReason
	}
	return ParseResult{reason: reason}
}

// IsOk reports whether the model output parsed and validated.
func (r ParseResult) IsOk() bool {
	return r.ok
}

// Reason is the degradation reason, empty for Ok results.
func (r ParseResult) Reason() string {
	return r.reason
}

// Analysis returns the parsed analysis. A degraded result yields an "other" page
// whose Errors hold the reason, so callers can always proceed safely.
func (r ParseResult) Analysis() types.PageAnalysis {
	if r.ok {
		return r.analysis
	}
	reason := r.reason
	if reason == "" {
		reason = defaultDegradedReason
	}
	return types.PageAnalysis{
		PageType: types.PageOther,
		Errors:   []string{reason},
	}
}
