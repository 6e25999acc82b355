package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/cache"
	"github.com/Ramsey-B/laurel/pkg/kafka"
	"github.com/Ramsey-B/laurel/pkg/models"
)

func newCacheWithReport(t *testing.T) *cache.Service {
	t.Helper()
	caches := cache.NewService(cache.DefaultConfig(), zap.NewNop(), time.Now)
	caches.PutReport("fp-1", models.ConflictReport{Severity: models.SeverityHigh})
	_, ok := caches.GetReport("fp-1")
	require.True(t, ok)
	return caches
}

func TestCaseChangeHandlerInvalidates(t *testing.T) {
	for _, eventType := range []string{EventCaseCreated, EventCaseUpdated, EventCaseDeleted} {
		t.Run(eventType, func(t *testing.T) {
			caches := newCacheWithReport(t)
			handler := NewCaseChangeHandler(caches, zap.NewNop())

			err := handler(context.Background(), &kafka.IncomingMessage{
				EventType: eventType,
				Value:     []byte(`{"case_id": 42}`),
			})
			require.NoError(t, err)

			_, ok := caches.GetReport("fp-1")
			assert.False(t, ok)
		})
	}
}

func TestCaseChangeHandlerIgnoresOtherEvents(t *testing.T) {
	caches := newCacheWithReport(t)
	handler := NewCaseChangeHandler(caches, zap.NewNop())

	err := handler(context.Background(), &kafka.IncomingMessage{
		EventType: "lawyer.created",
		Value:     []byte(`{}`),
	})
	require.NoError(t, err)

	_, ok := caches.GetReport("fp-1")
	assert.True(t, ok)
}

func TestCaseChangeHandlerBadPayloadStillInvalidates(t *testing.T) {
	caches := newCacheWithReport(t)
	handler := NewCaseChangeHandler(caches, zap.NewNop())

	err := handler(context.Background(), &kafka.IncomingMessage{
		EventType: EventCaseUpdated,
		Value:     []byte("{broken"),
	})
	require.NoError(t, err)

	// The event type alone proves case data changed.
	_, ok := caches.GetReport("fp-1")
	assert.False(t, ok)
}
