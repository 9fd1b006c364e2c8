// Package producer wraps the franz-go client with the small surface the
// audit pipeline needs: synchronous produce plus topic bootstrap.
package producer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer publishes records to Kafka.
type Producer struct {
	client *kgo.Client
}

// Config holds producer settings.
type Config struct {
	Brokers []string
	// EnsureTopics is created with 1 partition if missing at startup.
	EnsureTopics []string
}

// New connects to the brokers and creates any missing topics.
func New(ctx context.Context, cfg Config) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProduceRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if len(cfg.EnsureTopics) > 0 {
		adm := kadm.NewClient(client)
		// CreateTopics is idempotent enough for bootstrap: topic-exists
		// responses are ignored.
		resps, err := adm.CreateTopics(ctx, 1, 1, nil, cfg.EnsureTopics...)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("create topics: %w", err)
		}
		for _, resp := range resps.Sorted() {
			if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
				client.Close()
				return nil, fmt.Errorf("create topic %s: %w", resp.Topic, resp.Err)
			}
		}
	}

	return &Producer{client: client}, nil
}

// Produce sends a single record and waits for broker acknowledgement.
func (p *Producer) Produce(ctx context.Context, topic string, key, value []byte) error {
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	return p.client.ProduceSync(ctx, record).FirstErr()
}

// Close flushes buffered records and closes the client.
func (p *Producer) Close() {
	p.client.Close()
}
