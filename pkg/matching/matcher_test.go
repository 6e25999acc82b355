package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/models"
)

func newTestMatcher() *Matcher {
	return NewMatcher(DefaultConfig(), zap.NewNop())
}

func TestMatchByCompanyID(t *testing.T) {
	m := newTestMatcher()

	tests := []struct {
		name      string
		a, b      models.PartyDescriptor
		matched   bool
		matchedBy models.MatchedBy
	}{
		{
			name:      "equal identifiers",
			a:         models.PartyDescriptor{Name: "ООО Барака", Kind: models.PartyKindLegalEntity, CompanyID: "301234567"},
			b:         models.PartyDescriptor{Name: "Baraka LLC", Kind: models.PartyKindLegalEntity, CompanyID: "301234567"},
			matched:   true,
			matchedBy: models.MatchedByCompanyID,
		},
		{
			name:      "identifiers with separators still equal",
			a:         models.PartyDescriptor{Name: "ООО Барака", Kind: models.PartyKindLegalEntity, CompanyID: "301-234-567"},
			b:         models.PartyDescriptor{Name: "Другое имя", Kind: models.PartyKindLegalEntity, CompanyID: "301 234 567"},
			matched:   true,
			matchedBy: models.MatchedByCompanyID,
		},
		{
			name:    "different identifiers and different names",
			a:       models.PartyDescriptor{Name: "ООО Барака", Kind: models.PartyKindLegalEntity, CompanyID: "301234567"},
			b:       models.PartyDescriptor{Name: "АО Замин", Kind: models.PartyKindLegalEntity, CompanyID: "309999999"},
			matched: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := m.Match(tt.a, tt.b)
			assert.Equal(t, tt.matched, result.Matched)
			if tt.matched {
				assert.Equal(t, tt.matchedBy, result.MatchedBy)
			}
		})
	}
}

func TestMatchUnequalIdentifiersFallThroughToNames(t *testing.T) {
	m := newTestMatcher()

	// Identifiers disagree (likely a data-entry defect) but the names are
	// identical; name comparison still runs.
	a := models.PartyDescriptor{Name: "ООО Барака", Kind: models.PartyKindLegalEntity, CompanyID: "301234567"}
	b := models.PartyDescriptor{Name: "ООО Барака", Kind: models.PartyKindLegalEntity, CompanyID: "309999999"}

	result := m.Match(a, b)
	assert.True(t, result.Matched)
	assert.Equal(t, models.MatchedByNameExact, result.MatchedBy)
}

func TestMatchByPersonID(t *testing.T) {
	m := newTestMatcher()

	a := models.PartyDescriptor{Name: "Каримов А.", Kind: models.PartyKindIndividual, PersonID: "12345678901234"}
	b := models.PartyDescriptor{Name: "Karimov Aziz", Kind: models.PartyKindIndividual, PersonID: "12345678901234"}

	result := m.Match(a, b)
	assert.True(t, result.Matched)
	assert.Equal(t, models.MatchedByPersonID, result.MatchedBy)
}

func TestMatchMalformedIdentifierIgnored(t *testing.T) {
	m := newTestMatcher()

	// A malformed company identifier never participates in comparison.
	a := models.PartyDescriptor{Name: "ООО Барака", Kind: models.PartyKindLegalEntity, CompanyID: "12AB"}
	b := models.PartyDescriptor{Name: "ООО Барака", Kind: models.PartyKindLegalEntity, CompanyID: "12AB"}

	result := m.Match(a, b)
	assert.True(t, result.Matched)
	assert.Equal(t, models.MatchedByNameExact, result.MatchedBy)
}

func TestMatchNameExact(t *testing.T) {
	m := newTestMatcher()

	// Quotes, punctuation and case differences normalize away.
	a := models.PartyDescriptor{Name: "ООО «Барака»", Kind: models.PartyKindLegalEntity}
	b := models.PartyDescriptor{Name: "ооо Барака", Kind: models.PartyKindLegalEntity}

	result := m.Match(a, b)
	assert.True(t, result.Matched)
	assert.Equal(t, models.MatchedByNameExact, result.MatchedBy)
}

func TestMatchByTransliteration(t *testing.T) {
	m := newTestMatcher()

	// Same name, different scripts, no identifiers on either side.
	a := models.PartyDescriptor{Name: "Алишер Навоий", Kind: models.PartyKindIndividual}
	b := models.PartyDescriptor{Name: "Alisher Navoiy", Kind: models.PartyKindIndividual}

	result := m.Match(a, b)
	assert.True(t, result.Matched)
	assert.Equal(t, models.MatchedByTransliteration, result.MatchedBy)
}

func TestMatchTransliterationDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TransliterationEnabled = false
	m := NewMatcher(cfg, zap.NewNop())

	a := models.PartyDescriptor{Name: "Алишер Навоий", Kind: models.PartyKindIndividual}
	b := models.PartyDescriptor{Name: "Alisher Navoiy", Kind: models.PartyKindIndividual}

	result := m.Match(a, b)
	assert.False(t, result.Matched)
	assert.Equal(t, models.MatchedByNone, result.MatchedBy)
}

func TestMatchBySimilarity(t *testing.T) {
	m := newTestMatcher()

	// Same token set in a different order: no variant equality, but the
	// Jaccard score is 1.0.
	a := models.PartyDescriptor{Name: "Ташкент Сити Инвест Групп", Kind: models.PartyKindLegalEntity}
	b := models.PartyDescriptor{Name: "Инвест Групп Ташкент Сити", Kind: models.PartyKindLegalEntity}

	result := m.Match(a, b)
	assert.True(t, result.Matched)
	assert.Equal(t, models.MatchedBySimilarity(100), result.MatchedBy)
}

func TestMatchShortNamesSkipSimilarity(t *testing.T) {
	m := newTestMatcher()

	// Below the minimum length both sides, so similarity never runs even
	// though the token sets overlap completely.
	a := models.PartyDescriptor{Name: "Али В", Kind: models.PartyKindIndividual}
	b := models.PartyDescriptor{Name: "В Али", Kind: models.PartyKindIndividual}

	result := m.Match(a, b)
	assert.False(t, result.Matched)
}

func TestMatchEmptyNames(t *testing.T) {
	m := newTestMatcher()

	result := m.Match(models.PartyDescriptor{}, models.PartyDescriptor{})
	assert.False(t, result.Matched)
	assert.Equal(t, models.MatchedByNone, result.MatchedBy)
}

func TestMatchSymmetry(t *testing.T) {
	m := newTestMatcher()

	pairs := [][2]models.PartyDescriptor{
		{
			{Name: "Алишер Навоий"},
			{Name: "Alisher Navoiy"},
		},
		{
			{Name: "ООО Барака", CompanyID: "301234567"},
			{Name: "Baraka LLC", CompanyID: "301234567"},
		},
		{
			{Name: "ООО Барака"},
			{Name: "АО Замин"},
		},
	}

	for _, p := range pairs {
		forward := m.Match(p[0], p[1])
		backward := m.Match(p[1], p[0])
		assert.Equal(t, forward.Matched, backward.Matched, "%s vs %s", p[0].Name, p[1].Name)
	}
}

func TestSimilarity(t *testing.T) {
	m := newTestMatcher()

	assert.InDelta(t, 1.0, m.Similarity("Ташкент Сити", "Ташкент Сити"), 0.001)
	assert.InDelta(t, 0.0, m.Similarity("Ташкент", "Самарқанд"), 0.001)

	score := m.Similarity("Ташкент Сити Инвест", "Ташкент Сити")
	assert.Greater(t, score, 0.5)
	assert.Less(t, score, 1.0)
}

func TestScorerTokenJaccard(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "a b c", "a b c", 1.0},
		{"disjoint", "a b", "c d", 0.0},
		{"half overlap", "a b", "b c", 1.0 / 3.0},
		{"order independent", "b a", "a b", 1.0},
		{"empty side", "", "a", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, s.TokenJaccard(tt.a, tt.b), 0.0001)
		})
	}
}

func TestScorerLevenshteinRatio(t *testing.T) {
	s := NewScorer()

	assert.InDelta(t, 1.0, s.LevenshteinRatio("барака", "барака"), 0.0001)
	assert.InDelta(t, 1.0, s.LevenshteinRatio("", ""), 0.0001)

	score := s.LevenshteinRatio("барака", "баракат")
	assert.Greater(t, score, 0.8)
	assert.Less(t, score, 1.0)
}
