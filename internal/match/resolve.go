package match

import (
	"strings"
	"unicode/utf8"
)

// Scoring policy for name resolution.
const (
	// FirstNameScore is awarded when the first tokens are equal. A first-name
	// mismatch discards the candidate outright.
	FirstNameScore = 3
	// LastNameScore is awarded when the searched last token equals or prefixes
	// any candidate token. Without it the candidate is discarded.
	LastNameScore = 2
	// MiddleTokenScore is awarded per searched middle token (or initial) that
	// prefixes a candidate token after the first.
	MiddleTokenScore = 1
	// AcceptanceThreshold is the minimum score of a confident match: first and
	// last name agree.
	AcceptanceThreshold = FirstNameScore + LastNameScore
)

// Candidate is a roster member that a name can resolve to.
type Candidate struct {
	ID          string
	DisplayName string
}

// MatchResult is the outcome of a resolution. Matched is false when no
// candidate reached AcceptanceThreshold; ID and Score are then zero.
type MatchResult struct {
	ID      string
	Matched bool
	Score   int
	// Exact reports that the normalized names were identical and scoring was
	// skipped.
	Exact bool
}

// Roster is a candidate list with names normalized once up front. It is a
// snapshot: build a new one when the underlying data changes.
type Roster struct {
	entries []rosterEntry
}

type rosterEntry struct {
	Candidate
	tokens []string
	key    string
}

// Len returns the number of candidates in the roster.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}

	return len(r.entries)
}

// Resolver matches names using a Normalizer. The zero value is not usable;
// use NewResolver.
type Resolver struct {
	norm *Normalizer
}

var defaultResolver = NewResolver(nil)

// NewResolver returns a Resolver. A nil Normalizer means the built-in fold
// table.
func NewResolver(n *Normalizer) *Resolver {
	if n == nil {
		n = defaultNormalizer
	}

	return &Resolver{norm: n}
}

// Normalizer returns the normalizer used by r.
func (r *Resolver) Normalizer() *Normalizer {
	return r.norm
}

// Prepare normalizes every candidate name once, preserving roster order.
func (r *Resolver) Prepare(candidates []Candidate) *Roster {
	roster := &Roster{entries: make([]rosterEntry, 0, len(candidates))}
	for _, c := range candidates {
		tokens := r.norm.Tokens(c.DisplayName)
		roster.entries = append(roster.entries, rosterEntry{
			Candidate: c,
			tokens:    tokens,
			key:       joinTokens(tokens),
		})
	}

	return roster
}

// Resolve finds the single best candidate for name. See ResolveIn.
func (r *Resolver) Resolve(name string, candidates []Candidate) MatchResult {
	if strings.TrimSpace(name) == "" || len(candidates) == 0 {
		return MatchResult{}
	}

	return r.ResolveIn(name, r.Prepare(candidates))
}

// ResolveIn finds the single best candidate for name in a prepared roster.
//
// A candidate whose normalized name equals the normalized search wins
// immediately (first in roster order when several do). Otherwise the search
// needs at least two tokens and candidates are scored: the first token must
// be equal, the last searched token must equal or prefix some candidate
// token, and each middle token or initial that prefixes a later candidate
// token adds a point. The highest score wins, ties going to the earlier
// candidate, provided it reaches AcceptanceThreshold.
func (r *Resolver) ResolveIn(name string, roster *Roster) MatchResult {
	search := r.norm.Tokens(name)
	if len(search) == 0 || roster.Len() == 0 {
		return MatchResult{}
	}

	key := joinTokens(search)
	for i := range roster.entries {
		e := &roster.entries[i]
		if len(e.tokens) > 0 && e.key == key {
			return MatchResult{ID: e.ID, Matched: true, Score: exactScore(search), Exact: true}
		}
	}

	if len(search) < 2 {
		return MatchResult{}
	}

	var (
		best      *rosterEntry
		bestScore int
	)

	for i := range roster.entries {
		e := &roster.entries[i]

		score, ok := scoreTokens(search, e.tokens)
		if !ok {
			continue
		}

		if best == nil || score > bestScore {
			best, bestScore = e, score
		}
	}

	if best == nil || bestScore < AcceptanceThreshold {
		return MatchResult{}
	}

	return MatchResult{ID: best.ID, Matched: true, Score: bestScore}
}

// Resolve matches name against candidates with the built-in fold table.
func Resolve(name string, candidates []Candidate) MatchResult {
	return defaultResolver.Resolve(name, candidates)
}

// scoreTokens scores a candidate against the search tokens. ok is false when
// the candidate is discarded by the first- or last-name filter.
func scoreTokens(search, candidate []string) (score int, ok bool) {
	if len(candidate) < 2 || candidate[0] != search[0] {
		return 0, false
	}

	score = FirstNameScore

	last := search[len(search)-1]
	if !anyHasPrefix(candidate, last) {
		return 0, false
	}

	score += LastNameScore

	rest := candidate[1:]
	for _, m := range search[1 : len(search)-1] {
		if isInitial(m) {
			if anyHasPrefix(rest, m) {
				score += MiddleTokenScore
			}

			continue
		}

		if anyEqualOrHasPrefix(rest, m) {
			score += MiddleTokenScore
		}
	}

	return score, true
}

// exactScore reports what an exact match would have scored, for diagnostics.
func exactScore(search []string) int {
	score := FirstNameScore
	if len(search) > 1 {
		score += LastNameScore + MiddleTokenScore*(len(search)-2)
	}

	return max(score, AcceptanceThreshold)
}

func isInitial(tok string) bool {
	return utf8.RuneCountInString(tok) == 1
}

func anyHasPrefix(tokens []string, prefix string) bool {
	for _, t := range tokens {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}

	return false
}

func anyEqualOrHasPrefix(tokens []string, m string) bool {
	for _, t := range tokens {
		if t == m || strings.HasPrefix(t, m) {
			return true
		}
	}

	return false
}
