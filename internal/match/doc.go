// Package match resolves free-text person names against a roster of
// candidates.
//
// Key functions:
//   - Normalizer.Tokens: folds a name into comparable lowercase tokens
//   - Resolver.Resolve: picks the single confident candidate for a name
//   - Levenshtein: computes edit distance between normalized names
//   - Suggest: ranks near-miss candidates for names that did not resolve
//
// Resolution is deliberately strict. A name resolves when it equals a
// candidate after normalization, or when the first name matches exactly and
// the last name matches a candidate token (or prefixes it). Middle names and
// initials only add confidence. Nicknames ("Zé" for "José") do not resolve.
//
// Everything in this package is pure: types are immutable after
// construction and safe for concurrent use.
package match
