// Package stream publishes ingested content items to Kafka for downstream
// consumers (search indexing, analytics).
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"newsdesk/pkg/models"
)

// Producer sends content items to a Kafka topic.
type Producer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

// NewProducer initializes a synchronous Kafka producer for the topic.
func NewProducer(broker, topic string, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = slog.Default()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	logger.Info("kafka producer initialized", "broker", broker, "topic", topic)
	return &Producer{writer: writer, logger: logger}
}

// PublishContentItem sends one item, keyed by its ID so re-publishes of the
// same item land on the same partition.
func (p *Producer) PublishContentItem(ctx context.Context, item models.ContentItem) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal content item: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(item.ID),
		Value: payload,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write content item to kafka: %w", err)
	}
	return nil
}

// Close releases the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
