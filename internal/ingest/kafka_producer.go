package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/rider-gps/internal/models"
)

// KafkaProducer publishes accepted location updates so downstream
// consumers (cache mirrors, analytics) can follow the stream.
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &KafkaProducer{writer: w}
}

// PublishUpdate writes one record keyed by rider_id, so per-rider
// ordering is preserved within a partition.
func (k *KafkaProducer) PublishUpdate(rec models.RiderLocation) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, _ := json.Marshal(rec)
	return k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(rec.RiderID), Value: b})
}

func (k *KafkaProducer) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
