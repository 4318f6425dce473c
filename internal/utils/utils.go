package utils

import "strings"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizePatterns trims every pattern, drops empty ones and trailing slashes,
// and deduplicates the remainder.
func NormalizePatterns(patterns []string) []string {
	trimmedPatterns := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSuffix(strings.TrimSpace(pattern), "/")
		if trimmedPattern == EmptyString {
			continue
		}
		trimmedPatterns = append(trimmedPatterns, trimmedPattern)
	}
	return DeduplicatePatterns(trimmedPatterns)
}
