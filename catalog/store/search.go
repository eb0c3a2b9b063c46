package store

import (
	"sort"
	"strings"

	"github.com/owid/catalog-go/catalog/metadata"
	"github.com/owid/catalog-go/catalog/path"
	"github.com/owid/catalog-go/pkg/fuzzy"
)

// DefaultSearchLimit caps results when no limit is given.
const DefaultSearchLimit = 20

// Match pairs a record with its relevance score.
type Match struct {
	Record metadata.Record
	Score  float64
}

// SearchOptions filters and bounds a search.
type SearchOptions struct {
	// Kind restricts results to one path kind. KindAny matches all.
	Kind path.Kind
	// Limit caps the number of results (default DefaultSearchLimit).
	Limit int
}

// Search returns records matching the query, best first. Exact
// substring matches on title or path always rank above fuzzy title
// matches; equal scores are broken by the record's normalized path so
// the ordering is reproducible. An empty or unmatched query returns an
// empty slice, never an error.
func (s *Store) Search(query string, opts SearchOptions) []Match {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var matches []Match
	for _, p := range s.Paths(opts.Kind) {
		rec := s.records[p]
		if score, ok := scoreRecord(rec, query); ok {
			matches = append(matches, Match{Record: rec.Clone(), Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Record.Path < matches[j].Record.Path
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Substring matches score in [2, 3], path matches in [1.5, 2.5] and
// fuzzy matches in (0, 1): a tiered scale so no fuzzy match ever
// outranks an exact one.
func scoreRecord(rec metadata.Record, query string) (float64, bool) {
	title := strings.ToLower(rec.DisplayTitle())
	pathStr := strings.ToLower(rec.Path)

	if title != "" {
		if idx := strings.Index(title, query); idx >= 0 {
			return 2 + coverage(query, title)*0.5 + position(idx, title)*0.5, true
		}
	}
	if idx := strings.Index(pathStr, query); idx >= 0 {
		return 1.5 + coverage(query, pathStr)*0.5 + position(idx, pathStr)*0.5, true
	}

	if title == "" {
		return 0, false
	}

	// Fuzzy tier: per-word edit distance against the title.
	maxDist := max(2, len(query)/3)
	best := maxDist + 1
	for _, word := range strings.Fields(title) {
		if d := fuzzy.Distance(query, word); d < best {
			best = d
		}
	}
	if best > maxDist {
		return 0, false
	}
	return (1 - float64(best)/float64(maxDist+1)) * 0.99, true
}

// coverage rewards queries that cover more of the matched text.
func coverage(query, text string) float64 {
	return float64(len(query)) / float64(len(text))
}

// position rewards matches that start earlier in the text.
func position(idx int, text string) float64 {
	if len(text) == 0 {
		return 0
	}
	return 1 - float64(idx)/float64(len(text))
}
