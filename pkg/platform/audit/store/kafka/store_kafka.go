// Package kafka publishes audit events to a Kafka topic for external
// observers and indexers. Kafka is the durable record; the in-memory store
// covers tests and local runs.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	audit "hemotrace/pkg/platform/audit"
)

// Producer is the narrow produce surface the store needs, satisfied by
// internal/platform/kafka/producer.Producer.
type Producer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

// Store writes audit events as JSON records keyed by donor key so per-donor
// ordering is preserved within a partition.
type Store struct {
	producer Producer
	topic    string
}

func New(producer Producer, topic string) *Store {
	return &Store{producer: producer, topic: topic}
}

// payload is the JSON structure published to the topic.
type payload struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Timestamp   string `json:"timestamp"`
	Action      string `json:"action"`
	DonorKey    string `json:"donor_key,omitempty"`
	Actor       string `json:"actor,omitempty"`
	BloodUnitID uint64 `json:"blood_unit_id,omitempty"`
	FromStatus  string `json:"from_status,omitempty"`
	ToStatus    string `json:"to_status,omitempty"`
	Points      int64  `json:"points,omitempty"`
	Reason      string `json:"reason,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}

	body, err := json.Marshal(payload{
		ID:          uuid.NewString(),
		Category:    string(category),
		Timestamp:   event.Timestamp.Format(time.RFC3339Nano),
		Action:      event.Action,
		DonorKey:    event.DonorKey.String(),
		Actor:       event.Actor.String(),
		BloodUnitID: event.BloodUnitID,
		FromStatus:  event.FromStatus,
		ToStatus:    event.ToStatus,
		Points:      event.Points,
		Reason:      event.Reason,
		RequestID:   event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	key := []byte(event.DonorKey)
	if len(key) == 0 {
		key = []byte(event.Action)
	}
	if err := s.producer.Produce(ctx, s.topic, key, body); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}
