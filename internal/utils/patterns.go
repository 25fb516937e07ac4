package utils

import (
	"path/filepath"
	"strings"
)

const (
	shellNegatedClassPrefix = "[!"
	goNegatedClassPrefix    = "[^"
)

// MatchesGlob reports whether name matches a shell-style pattern. Character classes
// negated with "[!" are accepted alongside Go's "[^". Malformed patterns never match.
func MatchesGlob(pattern string, name string) bool {
	normalizedPattern := strings.ReplaceAll(pattern, shellNegatedClassPrefix, goNegatedClassPrefix)
	isMatched, matchError := filepath.Match(normalizedPattern, name)
	return matchError == nil && isMatched
}

// MatchesAnyGlob reports whether name matches at least one of patterns.
func MatchesAnyGlob(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if MatchesGlob(pattern, name) {
			return true
		}
	}
	return false
}
