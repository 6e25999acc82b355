package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/kafka"
	"github.com/Ramsey-B/laurel/pkg/models"
)

// Emitter publishes conflict-check results to Kafka. Emission is best
// effort: a publish failure is logged and never surfaces to the caller.
// Implements conflicts.Notifier.
type Emitter struct {
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewEmitter creates a conflict event emitter.
func NewEmitter(producer *kafka.Producer, logger *zap.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// ConflictChecked publishes a ConflictCheckedEvent for a completed check.
func (e *Emitter) ConflictChecked(ctx context.Context, snapshot models.CaseSnapshot, report models.ConflictReport) {
	event := ConflictCheckedEvent{
		CaseID:          snapshot.ID,
		CaseNumber:      snapshot.CaseNumber,
		Severity:        report.Severity,
		ImplicatedCases: report.CaseIDs,
		ReasonCount:     len(report.Reasons),
		Timestamp:       time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		e.logger.Error("failed to marshal conflict event", zap.Error(err))
		return
	}

	key := strconv.FormatInt(snapshot.ID, 10)
	if err := e.producer.Publish(ctx, EventConflictChecked, key, payload); err != nil {
		e.logger.Warn("conflict event dropped", zap.Int64("case_id", snapshot.ID), zap.Error(err))
	}
}
