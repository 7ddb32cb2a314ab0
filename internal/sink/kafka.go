package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"linkbio/internal/domain"
)

// messageWriter is the part of *kafka.Writer the forwarder uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// batchTimeout bounds how long a synchronous write waits for a partial batch
const batchTimeout = 5 * time.Millisecond

// KafkaForwarder publishes the projected event keyed by owner id
type KafkaForwarder struct {
	writer messageWriter
}

// NewKafkaForwarder creates a forwarder with one long-lived writer
func NewKafkaForwarder(brokers []string, topic string) *KafkaForwarder {
	return &KafkaForwarder{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: batchTimeout,
		},
	}
}

// Forward implements Forwarder
func (f *KafkaForwarder) Forward(ctx context.Context, event *domain.ClickEvent) error {
	value, err := json.Marshal(Project(event))
	if err != nil {
		return fmt.Errorf("encode click event: %w", err)
	}
	if err := f.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event.OwnerID), Value: value}); err != nil {
		return fmt.Errorf("publish click event: %w", err)
	}
	return nil
}

// Close flushes and closes the writer
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}
