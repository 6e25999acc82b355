package matching

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer provides string comparison algorithms for party names
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// ExactMatch returns 1.0 for exact match, 0.0 otherwise
func (s *Scorer) ExactMatch(a, b string, caseSensitive bool) float64 {
	if !caseSensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	if a == b {
		return 1.0
	}
	return 0.0
}

// TokenJaccard calculates the Jaccard index over whitespace-separated
// tokens. Returns a value between 0.0 (disjoint) and 1.0 (same token set).
func (s *Scorer) TokenJaccard(a, b string) float64 {
	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0.0
	}

	aSet := make(map[string]struct{}, len(aTokens))
	for _, t := range aTokens {
		aSet[t] = struct{}{}
	}
	bSet := make(map[string]struct{}, len(bTokens))
	for _, t := range bTokens {
		bSet[t] = struct{}{}
	}

	intersection := 0
	for t := range aSet {
		if _, ok := bSet[t]; ok {
			intersection++
		}
	}
	union := len(aSet) + len(bSet) - intersection

	return float64(intersection) / float64(union)
}

// LevenshteinRatio calculates edit-distance similarity between two strings
// Returns a similarity score between 0.0 and 1.0
func (s *Scorer) LevenshteinRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}
