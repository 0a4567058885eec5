// Package kafka provides a Kafka-backed eventstream publisher. Events are
// keyed by session id so one session's turns land on one partition in
// order.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/reveriegames/reverie/pkg/eventstream"
)

// Config holds Kafka publisher settings.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic is the topic turn events are written to.
	Topic string
}

// Publisher implements eventstream.Publisher on top of kafka-go.
type Publisher struct {
	writer *kafkago.Writer
}

// NewPublisher creates a Kafka publisher. The topic must already exist or
// the cluster must allow auto-creation.
func NewPublisher(config Config) *Publisher {
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:     kafkago.TCP(config.Brokers...),
			Topic:    config.Topic,
			Balancer: &kafkago.Hash{},
		},
	}
}

// PublishTurn writes one turn event, keyed by session id.
func (p *Publisher) PublishTurn(ctx context.Context, event *eventstream.TurnCommittedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling turn event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.SessionID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publishing turn event: %w", err)
	}

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
