package match

import (
	"sort"

	"mapcheck/internal/analyze"
)

const (
	// DefaultMinSimilarity is the lowest name similarity offered as a suggestion.
	DefaultMinSimilarity = 0.5
	// DefaultSuggestions is the number of suggestions attached to a finding.
	DefaultSuggestions = 3
)

// Candidate is a source member that might feed a destination member.
type Candidate struct {
	Name  string
	Score float64 // name similarity in [0, 1]
}

// CandidateList is a list of candidates ordered best first.
type CandidateList []Candidate

// RankCandidates scores every readable source member against the destination
// member name and returns those at or above minScore, best first. Ties are
// broken by name.
func RankCandidates(target string, sources []analyze.Member, minScore float64) CandidateList {
	var res CandidateList

	for _, m := range sources {
		if !m.Readable || m.Name == target {
			continue
		}

		score := Similarity(m.Name, target)
		if score < minScore {
			continue
		}

		res = append(res, Candidate{Name: m.Name, Score: score})
	}

	sort.Sort(res)

	return res
}

// SuggestMembers returns up to DefaultSuggestions source member names that
// resemble target.
func SuggestMembers(target string, sources []analyze.Member) []string {
	return RankCandidates(target, sources, DefaultMinSimilarity).Top(DefaultSuggestions).Names()
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the first n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Names returns the candidate names in order.
func (c CandidateList) Names() []string {
	if len(c) == 0 {
		return nil
	}

	names := make([]string, len(c))
	for i := range c {
		names[i] = c[i].Name
	}

	return names
}
