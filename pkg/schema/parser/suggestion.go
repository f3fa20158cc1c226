package parser

import (
	"fmt"
	"strings"
)

// SuggestKeyword suggests the closest valid keyword for an unknown one.
// It uses Levenshtein distance and falls back to listing valid keywords.
func SuggestKeyword(unknown string, valid []string) string {
	if len(valid) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string

	for _, kw := range valid {
		dist := levenshteinDistance(strings.ToLower(unknown), strings.ToLower(kw))
		if dist < minDistance {
			minDistance = dist
			bestMatch = kw
		}
	}

	// Only suggest if the distance is reasonable
	if minDistance < 4 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	if len(valid) > 6 {
		return fmt.Sprintf("Valid keywords include: %s, ...", strings.Join(valid[:6], ", "))
	}
	return fmt.Sprintf("Valid keywords: %s", strings.Join(valid, ", "))
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
