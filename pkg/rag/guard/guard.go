// Package guard implements the sensitive-query denylist.
//
// The check is a pure local heuristic: a fixed set of regular expressions,
// each a conjunction of keyword fragments joined by wildcards, tested against
// the lowercased question. It is applied as the FINAL gate in the answer
// pipeline, after generation has already run, and overrides whatever the
// pipeline computed. That ordering means generation cost is still incurred for
// blocked questions; this mirrors the observed behavior of the system rather
// than an intentional optimization.
package guard

import (
	"regexp"
	"strings"
)

// blockedPatterns is the fixed denylist. Each pattern requires its keyword
// fragments to occur in sequence anywhere in the lowercased question.
var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`reveal.*secret.*password`),
	regexp.MustCompile(`bypass.*(security|authentication|controls)`),
	regexp.MustCompile(`ignore.*(previous|all).*instructions`),
	regexp.MustCompile(`disable.*(safety|guard|filter)`),
	regexp.MustCompile(`show.*(all|every).*password`),
	regexp.MustCompile(`drop\s+table`),
	regexp.MustCompile(`delete\s+from`),
	regexp.MustCompile(`truncate\s+table`),
	regexp.MustCompile(`grant.*admin.*access`),
	regexp.MustCompile(`exfiltrate.*data`),
}

// IsBlocked reports whether the question matches any denylist pattern.
func IsBlocked(question string) bool {
	lowered := strings.ToLower(question)
	for _, pattern := range blockedPatterns {
		if pattern.MatchString(lowered) {
			return true
		}
	}
	return false
}
