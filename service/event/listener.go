package event

import (
	"context"
	"errors"
	"log"
)

// Listener runs a background loop delivering consumed events to a handler.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	cancel    context.CancelFunc
}

// NewListener creates a listener for the given publisher and handler.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
	}
}

// Start launches the delivery loop.  The loop runs until Stop is called.
func (l *Listener[T]) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go func() {
		for {
			event, err := l.publisher.Consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				log.Printf("event listener: consume failed: %v", err)
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}

// Stop terminates the delivery loop.
func (l *Listener[T]) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
}
