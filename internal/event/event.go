// Package event carries domain events from the API process to off-path
// workers over Kafka. Publication is best-effort: the API never waits on
// delivery for correctness.
package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/grocer-backend/internal/infrastructure/kafka"
	"github.com/google/uuid"
)

// Envelope wraps an event payload on the wire.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher publishes envelopes to Kafka, keyed so that events for one order
// stay in one partition and arrive in order.
type Publisher struct {
	producer *kafka.Producer
}

func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{producer: producer}
}

func (p *Publisher) Publish(ctx context.Context, key, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	envelope, err := json.Marshal(Envelope{
		ID:        uuid.New().String(),
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, key, envelope)
}
