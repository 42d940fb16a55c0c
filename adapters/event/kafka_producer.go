package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/portfolio-api/internal/config"
)

const (
	TopicPortfolioEvents = "portfolio.events"
)

// Entity event types published on mutations.
const (
	EventTypeCreated      = "entity.created"
	EventTypeUpdated      = "entity.updated"
	EventTypeDeleted      = "entity.deleted"
	EventTypeImageChanged = "entity.image_changed"
)

type EntityEventPayload struct {
	EventType string `json:"event_type"`
	Kind      string `json:"kind"`
	EntityID  int64  `json:"entity_id"`
	OwnerID   int64  `json:"owner_id"`
}

type KafkaProducerClient struct {
	PortfolioEventsWriter *kafka.Writer
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    TopicPortfolioEvents,
		Balancer: &kafka.LeastBytes{},
	}

	return &KafkaProducerClient{PortfolioEventsWriter: writer}, nil
}

func (c *KafkaProducerClient) PublishEntityEvent(ctx context.Context, payload EntityEventPayload) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("cannot marshal entity event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%s:%d", payload.Kind, payload.EntityID)),
		Value: value,
	}
	if err := c.PortfolioEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("cannot publish entity event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.PortfolioEventsWriter != nil {
		c.PortfolioEventsWriter.Close()
	}
}
