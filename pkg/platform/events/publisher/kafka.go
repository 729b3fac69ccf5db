package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"leasebook/pkg/platform/events"
)

// KafkaSink publishes lifecycle events to a Kafka topic, keyed by property
// id so one property's events stay ordered within a partition. This is the
// hand-off point for the external attestation collaborator.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// kafkaPayload is the JSON structure written to the topic.
type kafkaPayload struct {
	Type      string `json:"type"`
	Property  string `json:"property"`
	Actor     string `json:"actor"`
	Price     int64  `json:"price_cents,omitempty"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
}

// NewKafkaSink connects to the brokers and makes sure the topic exists.
func NewKafkaSink(ctx context.Context, brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, client, topic); err != nil {
		client.Close()
		return nil, err
	}
	return &KafkaSink{client: client, topic: topic}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, 1, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, t := range resp {
		if t.Err != nil && t.Err != kerr.TopicAlreadyExists {
			return fmt.Errorf("create topic %s: %w", topic, t.Err)
		}
	}
	return nil
}

// Publish produces one event synchronously.
func (k *KafkaSink) Publish(ctx context.Context, event events.Event) error {
	payload := kafkaPayload{
		Type:      string(event.Type),
		Property:  event.Property.String(),
		Actor:     event.Actor.String(),
		Price:     int64(event.Price),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		RequestID: event.RequestID,
	}
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.Property.String()),
		Value: value,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

// Close flushes and releases the Kafka client.
func (k *KafkaSink) Close() {
	k.client.Close()
}
