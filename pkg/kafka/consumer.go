package kafka

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/pkg/tracing"
)

// MessageHandler processes incoming Kafka messages
type MessageHandler func(ctx context.Context, msg *IncomingMessage) error

// Consumer handles Kafka message consumption
type Consumer struct {
	reader  *kafka.Reader
	logger  *zap.Logger
	handler MessageHandler
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// ConsumerConfig holds Kafka consumer configuration
type ConsumerConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// NewConsumer creates a new Kafka consumer
func NewConsumer(cfg ConsumerConfig, logger *zap.Logger, handler MessageHandler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: time.Second,
	})

	return &Consumer{
		reader:  reader,
		logger:  logger,
		handler: handler,
	}
}

// GetName implements startup.StartupDependency
func (c *Consumer) GetName() string {
	return "kafka-consumer"
}

// DependsOn implements startup.StartupDependency
func (c *Consumer) DependsOn() []string {
	return []string{"cache"}
}

// Start begins consuming messages
func (c *Consumer) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(1)
	go c.consumeLoop(loopCtx)

	c.logger.Info("kafka consumer started", zap.String("topic", c.reader.Config().Topic))
	return nil
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.reader.Close()
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer loop stopping")
			return
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if err == context.Canceled || err == io.EOF {
					return
				}
				c.logger.Error("failed to fetch message", zap.Error(err))
				continue
			}

			c.processMessage(ctx, msg)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	ctx, span := tracing.StartSpan(ctx, "kafka.Consumer.processMessage")
	defer span.End()

	in := newIncomingMessage(msg)
	if err := c.handler(ctx, in); err != nil {
		c.logger.Error("message handler failed",
			zap.String("topic", in.Topic),
			zap.Int("partition", in.Partition),
			zap.Int64("offset", in.Offset),
			zap.String("event_type", in.EventType),
			zap.Error(err),
		)
		// Commit anyway: case-change events are idempotent invalidations
		// and redelivery would not change the outcome.
	}

	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("failed to commit message", zap.Error(err))
	}
}
