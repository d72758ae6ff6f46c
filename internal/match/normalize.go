package match

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// defaultFolds maps a canonical token to the spelling variants folded into it.
// Variants are normalized before use, so accented and plain forms may both be
// listed.
var defaultFolds = map[string][]string{
	"luis":   {"luís", "luiz"},
	"sergio": {"sérgio", "sergio"},
}

// DefaultFolds returns a copy of the built-in spelling-variant table,
// keyed by canonical token.
func DefaultFolds() map[string][]string {
	out := make(map[string][]string, len(defaultFolds))
	for canonical, variants := range defaultFolds {
		out[canonical] = append([]string(nil), variants...)
	}

	return out
}

// Normalizer turns free-text names into token sequences.
// The pipeline:
// 1. Case-fold to lower.
// 2. Decompose (NFD) and drop combining marks, so "José" becomes "jose".
// 3. Strip periods ("J." -> "j").
// 4. Split on whitespace, dropping empty tokens.
// 5. Replace whole tokens found in the fold table with their canonical form.
//
// A Normalizer is immutable and safe for concurrent use.
type Normalizer struct {
	folds map[string]string // variant -> canonical
}

var defaultNormalizer = NewNormalizer(nil)

// NewNormalizer builds a Normalizer from the built-in fold table extended
// with extra (canonical -> variants). Entries in extra win over built-ins
// when the same variant is listed twice. Folds are whole-token replacements:
// a canonical form or variant that normalizes to anything but a single token
// is ignored. CheckFolds reports such entries.
func NewNormalizer(extra map[string][]string) *Normalizer {
	n := &Normalizer{folds: make(map[string]string)}
	n.addFolds(defaultFolds)
	n.addFolds(extra)

	return n
}

func (n *Normalizer) addFolds(table map[string][]string) {
	for canonical, variants := range table {
		c, ok := singleToken(canonical)
		if !ok {
			continue
		}

		for _, variant := range variants {
			if v, ok := singleToken(variant); ok && v != c {
				n.folds[v] = c
			}
		}
	}
}

// ErrInvalidFold is returned by CheckFolds.
var ErrInvalidFold = errors.New("fold entries must be single tokens")

// CheckFolds returns an error naming every canonical form or variant in
// table that does not normalize to exactly one token.
func CheckFolds(table map[string][]string) error {
	var bad []string

	for canonical, variants := range table {
		if _, ok := singleToken(canonical); !ok {
			bad = append(bad, fmt.Sprintf("canonical %q", canonical))
		}

		for _, variant := range variants {
			if _, ok := singleToken(variant); !ok {
				bad = append(bad, fmt.Sprintf("variant %q of %q", variant, canonical))
			}
		}
	}

	if len(bad) == 0 {
		return nil
	}

	sort.Strings(bad)

	return fmt.Errorf("%w: %s", ErrInvalidFold, strings.Join(bad, ", "))
}

func singleToken(s string) (string, bool) {
	tokens := baseTokens(s)
	if len(tokens) != 1 {
		return "", false
	}

	return tokens[0], true
}

// Tokens returns the normalized token sequence for name.
// Empty or blank input yields an empty (nil) slice.
func (n *Normalizer) Tokens(name string) []string {
	tokens := baseTokens(name)
	for i, tok := range tokens {
		if canonical, ok := n.folds[tok]; ok {
			tokens[i] = canonical
		}
	}

	return tokens
}

// Key returns the normalized tokens joined by single spaces.
func (n *Normalizer) Key(name string) string {
	return joinTokens(n.Tokens(name))
}

// Normalize returns the tokens of name using the built-in fold table.
func Normalize(name string) []string {
	return defaultNormalizer.Tokens(name)
}

// ReferenceKey normalizes a contract number, client name or serial number
// for case-insensitive comparison: trim, collapse whitespace, lowercase and
// drop diacritics. Periods and name folds are kept out of it since they are
// significant in identifiers like "CT.001".
func ReferenceKey(s string) string {
	return strings.Join(strings.Fields(StripDiacritics(strings.ToLower(s))), " ")
}

// StripDiacritics removes combining marks after canonical decomposition.
func StripDiacritics(s string) string {
	if isASCII(s) {
		return s
	}

	decomposed := norm.NFD.String(s)

	var b strings.Builder

	b.Grow(len(decomposed))

	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}

		b.WriteRune(r)
	}

	return norm.NFC.String(b.String())
}

// baseTokens runs every pipeline step except folding.
func baseTokens(s string) []string {
	s = StripDiacritics(strings.ToLower(s))
	s = strings.ReplaceAll(s, ".", "")

	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}

	return fields
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}
