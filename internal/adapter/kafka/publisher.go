// Package kafka publishes alert-dispatch audit events to a Kafka topic for
// downstream consumers (archival, analytics).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/aegisflood/alert-service/internal/config"
	"github.com/aegisflood/alert-service/internal/domain"
)

// Publisher produces dispatch events to the audit topic. It implements
// dispatch.EventPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured audit topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAuditTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishDispatched serializes and publishes one dispatch event. The event
// ID is assigned here; callers retry nothing since dispatch treats publishing as
// best-effort.
func (p *Publisher) PublishDispatched(ctx context.Context, event domain.AlertDispatchedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a dispatch event into a Kafka message keyed by
// event ID.
func serializeToMessage(event domain.AlertDispatchedEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize dispatch event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.EventID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(event.RiskLevel)},
			{Key: "dispatched_at", Value: []byte(event.DispatchedAt.Format(time.RFC3339))},
		},
	}, nil
}
