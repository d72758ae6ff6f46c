package match

import "sort"

// Suggestion is a roster candidate that came close to a name that did not
// resolve.
type Suggestion struct {
	Candidate
	// Similarity of the normalized names, 0-1.
	Similarity float64

	order int
}

// SuggestionList is ranked by similarity, best first.
type SuggestionList []Suggestion

// Suggestion defaults.
const (
	DefaultSuggestionLimit = 3
	DefaultMinSimilarity   = 0.6
)

// Suggest ranks roster candidates by similarity of their normalized names to
// name and returns at most limit entries scoring at least minSimilarity.
// It is meant for diagnostics only; it never affects resolution.
func (r *Resolver) Suggest(name string, roster *Roster, limit int, minSimilarity float64) SuggestionList {
	key := r.norm.Key(name)
	if key == "" || roster.Len() == 0 || limit <= 0 {
		return nil
	}

	var list SuggestionList

	for i := range roster.entries {
		e := &roster.entries[i]
		if e.key == "" {
			continue
		}

		sim := Similarity(key, e.key)
		if sim < minSimilarity {
			continue
		}

		list = append(list, Suggestion{Candidate: e.Candidate, Similarity: sim, order: i})
	}

	sort.Sort(list)

	return list.Top(limit)
}

// Len implements sort.Interface.
func (s SuggestionList) Len() int { return len(s) }

// Swap implements sort.Interface.
func (s SuggestionList) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Less implements sort.Interface.
// Sorts by similarity descending, then by roster order for determinism.
func (s SuggestionList) Less(i, j int) bool {
	if s[i].Similarity != s[j].Similarity {
		return s[i].Similarity > s[j].Similarity
	}

	return s[i].order < s[j].order
}

// Top returns the top n suggestions.
func (s SuggestionList) Top(n int) SuggestionList {
	if n >= len(s) {
		return s
	}

	return s[:n]
}

// Names returns the display names in rank order.
func (s SuggestionList) Names() []string {
	names := make([]string, 0, len(s))
	for _, sg := range s {
		names = append(names, sg.DisplayName)
	}

	return names
}
