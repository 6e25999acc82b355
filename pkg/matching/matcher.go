// Package matching decides whether two party descriptors refer to the same
// real-world entity. Identifiers are authoritative and checked first; name
// comparison is the fallback, from exact equality through transliteration
// variants down to token-similarity scoring.
package matching

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/normalizers"
	"github.com/Ramsey-B/laurel/pkg/translit"
)

// Config holds matcher tuning knobs
type Config struct {
	// TransliterationEnabled toggles cross-script variant comparison.
	TransliterationEnabled bool

	// HighThreshold and up is treated as a near-certain name match.
	HighThreshold float64
	// MediumThreshold is the minimum similarity score that counts as a
	// match in the comparison chain.
	MediumThreshold float64
	// LowThreshold marks scores worth surfacing as weak signals.
	LowThreshold float64

	// MinSimilarityLength is the minimum normalized-name length (in
	// runes) for both sides before similarity scoring is attempted.
	// Short strings produce too many token collisions to score safely.
	MinSimilarityLength int
}

// DefaultConfig returns the default matcher configuration
func DefaultConfig() Config {
	return Config{
		TransliterationEnabled: true,
		HighThreshold:          0.95,
		MediumThreshold:        0.85,
		LowThreshold:           0.75,
		MinSimilarityLength:    10,
	}
}

// Matcher compares party descriptors
type Matcher struct {
	config Config
	scorer *Scorer
	logger *zap.Logger
}

// NewMatcher creates a new Matcher
func NewMatcher(config Config, logger *zap.Logger) *Matcher {
	return &Matcher{
		config: config,
		scorer: NewScorer(),
		logger: logger,
	}
}

// Match runs the comparison chain on two party descriptors. The result
// records how the match was established; the chain stops at the first
// positive signal.
func (m *Matcher) Match(a, b models.PartyDescriptor) models.MatchResult {
	if result, decided := m.matchByIdentifier(a, b); decided {
		return result
	}

	normA := normalizers.MatchName(a.Name)
	normB := normalizers.MatchName(b.Name)
	if normA == "" || normB == "" {
		return models.MatchResult{Matched: false, MatchedBy: models.MatchedByNone}
	}

	if normA == normB {
		return models.MatchResult{Matched: true, MatchedBy: models.MatchedByNameExact}
	}

	variantsA := m.nameVariants(a.Name)
	variantsB := m.nameVariants(b.Name)

	if m.config.TransliterationEnabled {
		for va := range variantsA {
			if _, ok := variantsB[va]; ok {
				return models.MatchResult{Matched: true, MatchedBy: models.MatchedByTransliteration}
			}
		}
	}

	if len([]rune(normA)) >= m.config.MinSimilarityLength && len([]rune(normB)) >= m.config.MinSimilarityLength {
		best := 0.0
		for va := range variantsA {
			for vb := range variantsB {
				if score := m.scorer.TokenJaccard(va, vb); score > best {
					best = score
				}
			}
		}
		if best >= m.config.MediumThreshold {
			return models.MatchResult{
				Matched:   true,
				MatchedBy: models.MatchedBySimilarity(int(best * 100)),
			}
		}
	}

	return models.MatchResult{Matched: false, MatchedBy: models.MatchedByNone}
}

// Similarity returns the best token-Jaccard score across the variant sets
// of two names. Exposed for standalone name comparison endpoints.
func (m *Matcher) Similarity(a, b string) float64 {
	best := 0.0
	for va := range m.nameVariants(a) {
		for vb := range m.nameVariants(b) {
			if score := m.scorer.TokenJaccard(va, vb); score > best {
				best = score
			}
		}
	}
	return best
}

// matchByIdentifier compares tax and national identifiers. Equal
// identifiers decide the match outright; absent or unequal identifiers
// fall through to name comparison.
func (m *Matcher) matchByIdentifier(a, b models.PartyDescriptor) (models.MatchResult, bool) {
	companyA := m.normalizedID(a.CompanyID, normalizers.CompanyID, "company_id")
	companyB := m.normalizedID(b.CompanyID, normalizers.CompanyID, "company_id")
	if companyA != "" && companyA == companyB {
		return models.MatchResult{Matched: true, MatchedBy: models.MatchedByCompanyID}, true
	}

	personA := m.normalizedID(a.PersonID, normalizers.PersonID, "person_id")
	personB := m.normalizedID(b.PersonID, normalizers.PersonID, "person_id")
	if personA != "" && personA == personB {
		return models.MatchResult{Matched: true, MatchedBy: models.MatchedByPersonID}, true
	}

	return models.MatchResult{}, false
}

func (m *Matcher) normalizedID(raw string, normalize func(string) string, field string) string {
	if raw == "" {
		return ""
	}
	normalized := normalize(raw)
	if normalized == "" {
		m.logger.Debug("malformed identifier ignored",
			zap.String("field", field),
			zap.String("value", raw),
		)
	}
	return normalized
}

// nameVariants returns the normalized variant set for a name. When
// transliteration is disabled the set holds only the normalized input.
func (m *Matcher) nameVariants(name string) map[string]struct{} {
	set := make(map[string]struct{})
	if !m.config.TransliterationEnabled {
		if norm := normalizers.MatchName(name); norm != "" {
			set[norm] = struct{}{}
		}
		return set
	}
	for _, v := range translit.Variants(name) {
		if norm := normalizers.MatchName(v); norm != "" {
			set[norm] = struct{}{}
		}
	}
	return set
}

// String implements fmt.Stringer for configs in startup logs
func (c Config) String() string {
	return fmt.Sprintf(
		"translit=%t thresholds=%.2f/%.2f/%.2f min_len=%d",
		c.TransliterationEnabled, c.HighThreshold, c.MediumThreshold, c.LowThreshold, c.MinSimilarityLength,
	)
}
