// Package event fans arbiter notifications out to interested listeners via a
// messaging queue.
package event

import (
	"context"
	"time"

	"github.com/allocsafe/banker/internal/clock"
	"github.com/allocsafe/banker/service/messaging"
)

// Event is a typed notification envelope.
type Event[T any] struct {
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"createdAt"`
	Data      T         `json:"data"`
}

// Publisher publishes and consumes typed events over a queue.
type Publisher[T any] struct {
	queue messaging.Queue[Event[T]]
}

// NewPublisher creates a publisher backed by the supplied queue.
func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{queue: queue}
}

// Publish wraps data in an event envelope and enqueues it.
func (p *Publisher[T]) Publish(ctx context.Context, topic string, data T) error {
	return p.queue.Publish(ctx, &Event[T]{
		Topic:     topic,
		CreatedAt: clock.Now(),
		Data:      data,
	})
}

// Consume retrieves and acknowledges the next event.
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
