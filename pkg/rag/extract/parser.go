// Package extract pulls structured content out of free-text model output.
//
// The matching rules here are a literal contract: the SQL path looks for the
// exact marker "SQLQuery:" followed by a newline, and the chart path looks for
// fenced code blocks. Downstream behavior depends on these rules, so they are
// kept as explicit parsers returning tagged results instead of ad-hoc string
// handling at the call sites.
package extract

import (
	"regexp"
	"strings"
)

var (
	// SQLQuery: marker, then a newline, then everything remaining (multi-line).
	sqlQueryPattern = regexp.MustCompile(`(?s)SQLQuery:\s*\n(.*)`)

	// Fenced code blocks. The json fence is preferred; a bare fence is the
	// fallback before giving up and using the raw response.
	jsonFencePattern = regexp.MustCompile("(?s)```json(.*?)```")
	bareFencePattern = regexp.MustCompile("(?s)```(.*?)```")
)

// QueryResult is the tagged outcome of scanning model output for a SQL query.
type QueryResult struct {
	Found bool
	Query string
}

// ParseSQLQuery scans the model response for the "SQLQuery:" marker and
// captures everything after the following newline.
func ParseSQLQuery(response string) QueryResult {
	match := sqlQueryPattern.FindStringSubmatch(response)
	if match == nil {
		return QueryResult{}
	}
	return QueryResult{
		Found: true,
		Query: strings.TrimSpace(match[1]),
	}
}

// IsSelectQuery reports whether the query begins (case-insensitively) with
// "select". Anything else is rejected before execution, regardless of what
// follows the prefix.
func IsSelectQuery(query string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(query)), "select")
}

// ExtractFencedBlock returns the content of the first fenced code block in the
// response. If no fence is found the raw response is returned, matching the
// behavior the chart path depends on.
func ExtractFencedBlock(response string) string {
	if match := jsonFencePattern.FindStringSubmatch(response); match != nil {
		return strings.TrimSpace(match[1])
	}
	if match := bareFencePattern.FindStringSubmatch(response); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.TrimSpace(response)
}
