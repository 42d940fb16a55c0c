package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/portfolio-api/adapters/event"
	"github.com/khoahotran/portfolio-api/internal/config"
)

// The worker drains portfolio events and logs them. Downstream consumers
// (search indexing, static-site rebuilds) hang off this loop.
func main() {
	fmt.Println("Starting Portfolio Worker...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicPortfolioEvents,
		GroupID:  "portfolio-event-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicPortfolioEvents)

	ctx := context.Background()
	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: failed to read message: %v", err)
			continue
		}

		var payload event.EntityEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: failed to decode event payload: %v", err)
			continue
		}

		log.Printf("Event received: type=%s kind=%s entity_id=%d owner_id=%d",
			payload.EventType, payload.Kind, payload.EntityID, payload.OwnerID)
	}
}
