package structure

import (
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// Suggest returns declared child ids of the node at parent that look like
// missing. parent excludes the root id. Children that only exist at runtime,
// like documents of a documentList, are not considered.
func (s *Source) Suggest(parent []string, missing string) []string {
	def, ok := s.lookup(parent)
	if !ok || missing == "" {
		return nil
	}

	type candidate struct {
		id    string
		score float64
	}
	var candidates []candidate
	for _, item := range def.Items {
		if score := distance(item.ID, missing); score < 0.4 {
			candidates = append(candidates, candidate{id: item.ID, score: score})
		}
	}
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.score < b.score:
			return -1
		case a.score > b.score:
			return 1
		}
		return 0
	})

	out := make([]string, 0, min(len(candidates), maxSuggestions))
	for _, c := range candidates {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, c.id)
	}
	return out
}

// distance is the edit distance relative to the longer id, case-insensitive.
func distance(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(strings.ToLower(a), strings.ToLower(b))
	return float64(d) / float64(longest)
}
