package conflicts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/laurel/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		kinds    []models.FindingKind
		expected models.Severity
	}{
		{
			name:     "no findings",
			kinds:    nil,
			expected: models.SeverityNone,
		},
		{
			name:     "direct is high",
			kinds:    []models.FindingKind{models.FindingDirect},
			expected: models.SeverityHigh,
		},
		{
			name:     "lawyer both sides is high",
			kinds:    []models.FindingKind{models.FindingLawyerBothSides},
			expected: models.SeverityHigh,
		},
		{
			name:     "lawyer opposing is medium",
			kinds:    []models.FindingKind{models.FindingLawyerOpposing},
			expected: models.SeverityMedium,
		},
		{
			name:     "cross entity is medium",
			kinds:    []models.FindingKind{models.FindingCrossEntity},
			expected: models.SeverityMedium,
		},
		{
			name:     "position switch is medium",
			kinds:    []models.FindingKind{models.FindingPositionSwitch},
			expected: models.SeverityMedium,
		},
		{
			name:     "only related party is low",
			kinds:    []models.FindingKind{models.FindingRelatedParty, models.FindingRelatedParty},
			expected: models.SeverityLow,
		},
		{
			name:     "direct outranks everything",
			kinds:    []models.FindingKind{models.FindingRelatedParty, models.FindingCrossEntity, models.FindingDirect},
			expected: models.SeverityHigh,
		},
		{
			name:     "medium outranks low",
			kinds:    []models.FindingKind{models.FindingRelatedParty, models.FindingLawyerOpposing},
			expected: models.SeverityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := make([]models.ConflictFinding, len(tt.kinds))
			for i, k := range tt.kinds {
				findings[i] = models.ConflictFinding{Kind: k, Reason: "r", CaseID: 1}
			}
			assert.Equal(t, tt.expected, Classify(findings))
		})
	}
}

func TestClassifyOrderIndependent(t *testing.T) {
	forward := []models.ConflictFinding{
		{Kind: models.FindingRelatedParty},
		{Kind: models.FindingDirect},
	}
	backward := []models.ConflictFinding{
		{Kind: models.FindingDirect},
		{Kind: models.FindingRelatedParty},
	}

	assert.Equal(t, Classify(forward), Classify(backward))
}

func TestRecommendations(t *testing.T) {
	assert.NotEmpty(t, Recommendations(models.SeverityHigh))
	assert.NotEmpty(t, Recommendations(models.SeverityMedium))
	assert.NotEmpty(t, Recommendations(models.SeverityLow))
	assert.Equal(t, []string{"Обратитесь к администратору"}, Recommendations(models.SeverityError))
	assert.Empty(t, Recommendations(models.SeverityNone))
}
