package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// IncomingMessage is a consumed Kafka message with its routing headers
// parsed out.
type IncomingMessage struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	EventType string
	Timestamp time.Time
}

func newIncomingMessage(msg kafka.Message) *IncomingMessage {
	in := &IncomingMessage{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
		Timestamp: msg.Time,
	}
	for _, h := range msg.Headers {
		if h.Key == "event_type" {
			in.EventType = string(h.Value)
		}
	}
	return in
}
