// Package conflicts implements conflict-of-interest detection for legal
// cases: the rule engine that compares a candidate case against existing
// ones, the severity classifier, and the service that ties them to the
// case store and caches.
package conflicts

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/matching"
	"github.com/Ramsey-B/laurel/pkg/models"
)

// EngineConfig holds rule engine toggles
type EngineConfig struct {
	// RelatedChecksEnabled toggles the related-party and cross-entity
	// rules; the direct, lawyer and position-switch rules always run.
	RelatedChecksEnabled bool
}

// DefaultEngineConfig returns the default engine configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{RelatedChecksEnabled: true}
}

// Engine evaluates one candidate case against one existing case and
// produces findings. Rules append independently; the same existing case
// may produce several findings before the service deduplicates.
type Engine struct {
	config  EngineConfig
	matcher *matching.Matcher
	logger  *zap.Logger
}

// NewEngine creates a rule engine backed by the given matcher.
func NewEngine(config EngineConfig, matcher *matching.Matcher, logger *zap.Logger) *Engine {
	return &Engine{
		config:  config,
		matcher: matcher,
		logger:  logger,
	}
}

// Evaluate runs every rule on the candidate/existing pair. lawyerNames
// resolves lawyer ids to display names for reason strings; missing ids
// fall back to the numeric form.
func (e *Engine) Evaluate(candidate, existing models.CaseSnapshot, lawyerNames map[int64]string) []models.ConflictFinding {
	var findings []models.ConflictFinding

	findings = append(findings, e.checkDirect(candidate, existing)...)
	findings = append(findings, e.checkLawyers(candidate, existing, lawyerNames)...)
	if e.config.RelatedChecksEnabled {
		findings = append(findings, e.checkRelatedParties(candidate, existing)...)
		findings = append(findings, e.checkCrossEntity(candidate, existing)...)
	}
	findings = append(findings, e.checkPositionSwitch(candidate, existing)...)

	return findings
}

// checkDirect fires when the candidate's client appears as the existing
// case's opponent or vice versa. Both directions are checked independently.
func (e *Engine) checkDirect(candidate, existing models.CaseSnapshot) []models.ConflictFinding {
	var findings []models.ConflictFinding

	if result := e.matcher.Match(candidate.Client, existing.Opponent); result.Matched {
		e.logMatch("direct", candidate.Client, existing, result)
		findings = append(findings, models.ConflictFinding{
			Kind:   models.FindingDirect,
			Reason: fmt.Sprintf("Прямой конфликт: клиент «%s» является оппонентом по делу %s", candidate.Client.DisplayName(), existing.Ref()),
			CaseID: existing.ID,
		})
	}

	if result := e.matcher.Match(candidate.Opponent, existing.Client); result.Matched {
		e.logMatch("direct", candidate.Opponent, existing, result)
		findings = append(findings, models.ConflictFinding{
			Kind:   models.FindingDirect,
			Reason: fmt.Sprintf("Прямой конфликт: оппонент «%s» является клиентом по делу %s", candidate.Opponent.DisplayName(), existing.Ref()),
			CaseID: existing.ID,
		})
	}

	return findings
}

// checkLawyers fires for every lawyer assigned to both cases. A lawyer
// whose existing client shows up as the candidate's opponent would end up
// representing both sides of the same party's disputes; a lawyer whose
// existing opponent shows up as the candidate's client is switching sides
// against a party they previously faced.
func (e *Engine) checkLawyers(candidate, existing models.CaseSnapshot, lawyerNames map[int64]string) []models.ConflictFinding {
	var findings []models.ConflictFinding

	for _, lawyerID := range candidate.LawyerIDs {
		if !existing.HasLawyer(lawyerID) {
			continue
		}
		lawyer := lawyerDisplay(lawyerID, lawyerNames)

		if result := e.matcher.Match(candidate.Opponent, existing.Client); result.Matched {
			e.logMatch("lawyer_both_sides", candidate.Opponent, existing, result)
			findings = append(findings, models.ConflictFinding{
				Kind:   models.FindingLawyerBothSides,
				Reason: fmt.Sprintf("Адвокат %s представляет обе стороны: «%s» является клиентом по делу %s", lawyer, candidate.Opponent.DisplayName(), existing.Ref()),
				CaseID: existing.ID,
			})
		}

		if result := e.matcher.Match(candidate.Client, existing.Opponent); result.Matched {
			e.logMatch("lawyer_opposing", candidate.Client, existing, result)
			findings = append(findings, models.ConflictFinding{
				Kind:   models.FindingLawyerOpposing,
				Reason: fmt.Sprintf("Адвокат %s выступал против «%s» по делу %s", lawyer, candidate.Client.DisplayName(), existing.Ref()),
				CaseID: existing.ID,
			})
		}
	}

	return findings
}

// checkRelatedParties cross-matches affiliated entities of the same role
// category on both cases; person-like affiliates are additionally checked
// against the existing case's own parties.
func (e *Engine) checkRelatedParties(candidate, existing models.CaseSnapshot) []models.ConflictFinding {
	var findings []models.ConflictFinding

	for _, role := range models.RoleCategories {
		existingEntries := existing.AffiliatesByRole(role)
		for _, entry := range candidate.AffiliatesByRole(role) {
			for _, other := range existingEntries {
				result := e.matcher.Match(entry.PartyDescriptor, other.PartyDescriptor)
				if !result.Matched {
					continue
				}
				e.logMatch("related_party", entry.PartyDescriptor, existing, result)
				findings = append(findings, models.ConflictFinding{
					Kind:   models.FindingRelatedParty,
					Reason: fmt.Sprintf("Связанная сторона: «%s» (%s) фигурирует в деле %s", entry.DisplayName(), role.Label(), existing.Ref()),
					CaseID: existing.ID,
				})
			}

			if !role.IsPersonLike() {
				continue
			}
			// A founder or related individual may itself be a party of
			// the existing case.
			for _, party := range []models.PartyDescriptor{existing.Client, existing.Opponent} {
				result := e.matcher.Match(entry.PartyDescriptor, party)
				if !result.Matched {
					continue
				}
				e.logMatch("related_party", entry.PartyDescriptor, existing, result)
				findings = append(findings, models.ConflictFinding{
					Kind:   models.FindingRelatedParty,
					Reason: fmt.Sprintf("Связанная сторона: «%s» (%s) является участником дела %s", entry.DisplayName(), role.Label(), existing.Ref()),
					CaseID: existing.ID,
				})
			}
		}
	}

	return findings
}

// checkCrossEntity compares the candidate's pooled affiliated individuals
// and companies against the existing case's opponent only. The asymmetry
// is deliberate: it models the candidate client's insider being the other
// side of someone else's dispute.
func (e *Engine) checkCrossEntity(candidate, existing models.CaseSnapshot) []models.ConflictFinding {
	var findings []models.ConflictFinding

	for _, entry := range candidate.Affiliates {
		if entry.Role == models.RoleRelatedCompany {
			continue
		}
		result := e.matcher.Match(entry.PartyDescriptor, existing.Opponent)
		if !result.Matched {
			continue
		}
		e.logMatch("cross_entity", entry.PartyDescriptor, existing, result)
		findings = append(findings, models.ConflictFinding{
			Kind:   models.FindingCrossEntity,
			Reason: fmt.Sprintf("Аффилированное лицо «%s» является оппонентом по делу %s", entry.DisplayName(), existing.Ref()),
			CaseID: existing.ID,
		})
	}

	return findings
}

// checkPositionSwitch fires when both sides are swapped versus a prior
// case: the candidate's client was the opponent and the candidate's
// opponent was the client.
func (e *Engine) checkPositionSwitch(candidate, existing models.CaseSnapshot) []models.ConflictFinding {
	clientAsOpponent := e.matcher.Match(candidate.Client, existing.Opponent)
	opponentAsClient := e.matcher.Match(candidate.Opponent, existing.Client)
	if !clientAsOpponent.Matched || !opponentAsClient.Matched {
		return nil
	}

	e.logMatch("position_switch", candidate.Client, existing, clientAsOpponent)
	return []models.ConflictFinding{{
		Kind:   models.FindingPositionSwitch,
		Reason: fmt.Sprintf("Смена позиций: стороны дела %s участвуют в обратных ролях", existing.Ref()),
		CaseID: existing.ID,
	}}
}

func (e *Engine) logMatch(rule string, party models.PartyDescriptor, existing models.CaseSnapshot, result models.MatchResult) {
	e.logger.Debug("conflict rule matched",
		zap.String("rule", rule),
		zap.String("party", party.DisplayName()),
		zap.Int64("existing_case_id", existing.ID),
		zap.String("matched_by", string(result.MatchedBy)),
	)
}

func lawyerDisplay(id int64, names map[int64]string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("№%d", id)
}
