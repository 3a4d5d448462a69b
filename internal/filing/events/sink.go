// Package events publishes filing lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pscfiling/internal/platform/kafka/producer"
	audit "pscfiling/pkg/platform/audit"
)

// Message is the JSON value written to the filing topic.
type Message struct {
	Event         string    `json:"event"`
	FilingID      string    `json:"filing_id"`
	TransactionID string    `json:"transaction_id"`
	PscType       string    `json:"psc_type"`
	Etag          string    `json:"etag"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// KafkaSink forwards audit events to a topic keyed by filing id, so every
// event for one filing lands on the same partition.
type KafkaSink struct {
	producer producer.Publisher
	topic    string
}

// NewKafkaSink builds a sink. An empty topic uses the producer's default.
func NewKafkaSink(p producer.Publisher, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Append(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(Message{
		Event:         event.Action,
		FilingID:      event.FilingID,
		TransactionID: event.TransactionID,
		PscType:       event.PscType,
		Etag:          event.Etag,
		OccurredAt:    event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("marshal filing event: %w", err)
	}

	headers := map[string]string{"event": event.Action}
	if event.RequestID != "" {
		headers["request_id"] = event.RequestID
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic:   s.topic,
		Key:     []byte(event.FilingID),
		Value:   value,
		Headers: headers,
	})
}
