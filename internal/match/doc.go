// Package match grades primitive conversions and ranks member names.
//
// Key functions:
//   - ScoreCompatibility: grades a source/destination primitive pair under a
//     set of allowed conversion categories
//   - NormalizeIdent: normalizes identifiers for fuzzy matching
//   - Levenshtein: computes edit distance between identifiers
//   - RankCandidates: ranks source members that could stand in for a
//     destination member without a same-named source
package match
