package models

import (
	"fmt"
	"time"
)

// MatchedBy records which step of the matching chain produced a match.
type MatchedBy string

const (
	MatchedByCompanyID       MatchedBy = "company-id"
	MatchedByPersonID        MatchedBy = "person-id"
	MatchedByNameExact       MatchedBy = "name-exact"
	MatchedByTransliteration MatchedBy = "name-transliteration"
	MatchedByNone            MatchedBy = "none"
)

// MatchedBySimilarity tags a fuzzy match with its similarity percentage.
func MatchedBySimilarity(pct int) MatchedBy {
	return MatchedBy(fmt.Sprintf("name-similarity-%d", pct))
}

// MatchResult is the outcome of comparing two party descriptors. It is used
// for audit and reason rendering, never persisted.
type MatchResult struct {
	Matched   bool      `json:"matched"`
	MatchedBy MatchedBy `json:"matched_by"`
}

// FindingKind is the typed category of a conflict finding. Severity
// classification switches on this tag, never on reason text.
type FindingKind string

const (
	FindingDirect          FindingKind = "direct"
	FindingLawyerBothSides FindingKind = "lawyer_both_sides"
	FindingLawyerOpposing  FindingKind = "lawyer_opposing"
	FindingRelatedParty    FindingKind = "related_party"
	FindingCrossEntity     FindingKind = "cross_entity"
	FindingPositionSwitch  FindingKind = "position_switch"
)

// ConflictFinding is a single raised conflict: its typed category, a
// human-readable reason, and the existing case it implicates.
type ConflictFinding struct {
	Kind   FindingKind `json:"kind"`
	Reason string      `json:"reason"`
	CaseID int64       `json:"case_id"`
}

// Severity is the overall conflict tier of a report.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
	// SeverityError marks a degraded report produced when an upstream fetch
	// failed. It is never produced by classification and must not be read as
	// "no conflict".
	SeverityError Severity = "error"
)

// ConflictReport is the final, immutable output of a conflict check.
type ConflictReport struct {
	Severity        Severity `json:"severity"`
	Reasons         []string `json:"reasons"`
	CaseIDs         []int64  `json:"case_ids"`
	Recommendations []string `json:"recommendations"`

	CheckedAt time.Time `json:"checked_at"`
}

// HasConflicts reports whether the check surfaced at least one finding.
func (r *ConflictReport) HasConflicts() bool {
	return r.Severity != SeverityNone && r.Severity != SeverityError
}
