package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"diderot/internal/model"
)

// Kafka publishes the full report JSON to a topic, keyed by date so
// regenerations of one day land on the same partition in order.
type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(broker, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

func (k *Kafka) Announce(ctx context.Context, rep *model.DailyReport) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rep.Date),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publishing report to kafka: %w", err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
