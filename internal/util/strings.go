// Package util provides small formatting helpers shared by the dashboard
// and the one-shot commands.
package util

import (
	"fmt"
	"sort"
	"strings"
)

// JoinOrNone joins strings with ", " or returns "(none)" for empty slices.
func JoinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Count formats a count with its noun, e.g. "1 job" or "3 jobs".
func Count(count int, singular, plural string) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, singular, plural))
}

// maxSuggestDistance is the largest edit distance SuggestSimilar accepts.
const maxSuggestDistance = 2

// LevenshteinDistance returns the edit distance between a and b.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[len(rb)]
}

// SuggestSimilar returns up to limit candidates within a small edit distance
// of input, closest first. Matching ignores case.
func SuggestSimilar(input string, candidates []string, limit int) []string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || len(candidates) == 0 {
		return nil
	}

	type match struct {
		name string
		dist int
	}
	var matches []match
	for _, c := range candidates {
		if d := LevenshteinDistance(input, strings.ToLower(c)); d <= maxSuggestDistance {
			matches = append(matches, match{c, d})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}
