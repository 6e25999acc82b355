// Package events defines the engine's Kafka event schemas, the emitter
// that publishes conflict-check results, and the handler that invalidates
// cached reports when case data changes upstream.
package events

import (
	"time"

	"github.com/Ramsey-B/laurel/pkg/models"
)

const (
	// EventConflictChecked is emitted after every completed conflict check.
	EventConflictChecked = "conflict.checked"

	// Case-change events consumed from the host application. Any of them
	// invalidates cached conflict reports.
	EventCaseCreated = "case.created"
	EventCaseUpdated = "case.updated"
	EventCaseDeleted = "case.deleted"
)

// ConflictCheckedEvent is the payload of EventConflictChecked.
type ConflictCheckedEvent struct {
	CaseID          int64           `json:"case_id"`
	CaseNumber      string          `json:"case_number,omitempty"`
	Severity        models.Severity `json:"severity"`
	ImplicatedCases []int64         `json:"implicated_cases,omitempty"`
	ReasonCount     int             `json:"reason_count"`
	Timestamp       time.Time       `json:"timestamp"`
}

// CaseChangedEvent is the payload of the case-change events.
type CaseChangedEvent struct {
	CaseID    int64     `json:"case_id"`
	Timestamp time.Time `json:"timestamp"`
}
