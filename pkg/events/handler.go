package events

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/cache"
	"github.com/Ramsey-B/laurel/pkg/kafka"
)

// NewCaseChangeHandler returns a message handler that drops all cached
// conflict reports whenever case data changes upstream. Fingerprints do
// not map back to the cases they implicate, so the whole report cache is
// cleared rather than individual entries.
func NewCaseChangeHandler(caches *cache.Service, logger *zap.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg *kafka.IncomingMessage) error {
		switch msg.EventType {
		case EventCaseCreated, EventCaseUpdated, EventCaseDeleted:
		default:
			logger.Debug("ignoring event", zap.String("event_type", msg.EventType))
			return nil
		}

		// The event type alone justifies the invalidation; the payload is
		// decoded only for logging and must not gate the clear.
		caches.InvalidateReports()

		var event CaseChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Warn("case change payload unreadable",
				zap.String("event_type", msg.EventType),
				zap.Error(err),
			)
			return nil
		}

		logger.Info("conflict report cache invalidated",
			zap.String("event_type", msg.EventType),
			zap.Int64("case_id", event.CaseID),
		)
		return nil
	}
}
