package conflicts

import "github.com/Ramsey-B/laurel/pkg/models"

// Classify derives the overall severity from the finding categories. The
// classification is static and order-independent: it looks only at which
// kinds are present, never at counts or reason text.
func Classify(findings []models.ConflictFinding) models.Severity {
	if len(findings) == 0 {
		return models.SeverityNone
	}

	kinds := make(map[models.FindingKind]bool, len(findings))
	for _, f := range findings {
		kinds[f.Kind] = true
	}

	if kinds[models.FindingDirect] || kinds[models.FindingLawyerBothSides] {
		return models.SeverityHigh
	}
	if kinds[models.FindingLawyerOpposing] || kinds[models.FindingCrossEntity] || kinds[models.FindingPositionSwitch] {
		return models.SeverityMedium
	}
	return models.SeverityLow
}

// Recommendations returns the action list attached to a report of the
// given severity.
func Recommendations(severity models.Severity) []string {
	switch severity {
	case models.SeverityHigh:
		return []string{
			"Отказаться от принятия дела или получить письменное согласие всех затронутых сторон",
			"Передать дело адвокату без конфликта интересов",
		}
	case models.SeverityMedium:
		return []string{
			"Провести дополнительную проверку конфликта интересов",
			"Уведомить руководство о потенциальном конфликте",
		}
	case models.SeverityLow:
		return []string{
			"Зафиксировать выявленную связь в материалах дела",
		}
	case models.SeverityError:
		return []string{
			"Обратитесь к администратору",
		}
	default:
		return nil
	}
}
