// Package schemas embeds the JSON Schemas that model responses are validated against.
package schemas

import _ "embed"

// PageAnalysis is the schema for page classifier output.
//
//go:embed page_analysis.schema.json
var PageAnalysis string

// MatchResult is the schema for job/profile match output.
//
//go:embed match_result.schema.json
var MatchResult string
