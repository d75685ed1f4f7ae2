package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaDispatcher publishes events to the order-events topic, keyed by
// order id so all transitions of one order stay in partition order.
type KafkaDispatcher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewKafkaDispatcher creates a Kafka-backed event dispatcher.
func NewKafkaDispatcher(brokers []string, topic string, logger zerolog.Logger) *KafkaDispatcher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaDispatcher{
		writer: writer,
		logger: logger.With().Str("dispatcher", "kafka").Logger(),
	}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.OrderID),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	d.logger.Debug().
		Str("event_type", e.Type).
		Str("order_id", e.OrderID).
		Msg("event published")
	return nil
}

// Close flushes and closes the underlying writer.
func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
