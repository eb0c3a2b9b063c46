// Package fuzzy provides Levenshtein-based approximate string
// matching, used for search ranking and "did you mean" suggestions.
package fuzzy

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance is the default maximum edit distance to consider a match
	DefaultMaxDistance = 3
	// DefaultMaxResults is the default maximum number of matches to return
	DefaultMaxResults = 3
)

// Options configures approximate matching
type Options struct {
	MaxDistance   int  // Maximum Levenshtein distance to consider (default: 3)
	MaxResults    int  // Maximum number of matches to return (default: 3)
	CaseSensitive bool // Whether matching is case-sensitive (default: false)
}

// match pairs a candidate with its edit distance
type match struct {
	value    string
	distance int
}

// Similar returns the candidates closest to the target by Levenshtein
// distance, nearest first. Candidates beyond the maximum distance are
// excluded.
//
// Example:
//
//	Similar("populaton", []string{"population", "poverty", "polio"}, nil)
//	// Returns: ["population"]
func Similar(target string, candidates []string, opts *Options) []string {
	if opts == nil {
		opts = &Options{}
	}
	maxDist := opts.MaxDistance
	if maxDist == 0 {
		maxDist = DefaultMaxDistance
	}
	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = DefaultMaxResults
	}

	var matches []match
	for _, candidate := range candidates {
		a, b := target, candidate
		if !opts.CaseSensitive {
			a = strings.ToLower(a)
			b = strings.ToLower(b)
		}
		if dist := Distance(a, b); dist <= maxDist {
			matches = append(matches, match{value: candidate, distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	result := make([]string, 0, maxResults)
	for i := 0; i < len(matches) && i < maxResults; i++ {
		result = append(result, matches[i].value)
	}
	return result
}

// BestMatch returns the single closest candidate, or "" when none is
// within the maximum distance.
func BestMatch(target string, candidates []string, opts *Options) string {
	matches := Similar(target, candidates, opts)
	if len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// Distance computes the Levenshtein distance between two strings: the
// minimum number of single-character insertions, deletions and
// substitutions turning one into the other.
func Distance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Two-row dynamic program over the edit matrix.
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := 0; j <= len(s2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
