package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"plant_monitor/internal/config"
	"plant_monitor/internal/models"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka produces one JSON message per snapshot keyed by plant id, so a
// plant's snapshots stay ordered within a partition.
type Kafka struct {
	w messageWriter
}

func NewKafka(cfg config.KafkaConfig) *Kafka {
	return &Kafka{w: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}
}

func (k *Kafka) Name() string { return "kafka" }

func (k *Kafka) Publish(ctx context.Context, s models.Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := k.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(s.PlantID),
		Value: b,
		Time:  s.SampledAt,
	}); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (k *Kafka) Close() error { return k.w.Close() }
