package sink

import (
	"context"
	"errors"
	"fmt"

	"github.com/metdatasystem/chprotolist/internal/config"
	"github.com/metdatasystem/chprotolist/internal/payload"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka produces one record per payload, for a ClickHouse Kafka engine table.
type Kafka struct {
	client *kgo.Client
	topic  string
}

func NewKafka(cfg config.Kafka) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is not set")
	}

	client, err := newKafkaClient(cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise kafka client: %w", err)
	}

	return &Kafka{client: client, topic: cfg.Topic}, nil
}

func newKafkaClient(brokers []string) (*kgo.Client, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func kafkaRecord(topic string, p payload.Payload) *kgo.Record {
	return &kgo.Record{
		Topic: topic,
		Value: p.Data,
		Headers: []kgo.RecordHeader{
			{Key: "content-type", Value: []byte(p.Format.ContentType())},
		},
	}
}

func (k *Kafka) Write(ctx context.Context, p payload.Payload) error {
	result := k.client.ProduceSync(ctx, kafkaRecord(k.topic, p))
	return result.FirstErr()
}

func (k *Kafka) Close() error {
	k.client.Close()
	return nil
}
