// Package events is a synchronous in-process publisher. Job mutations
// are published here and the invoice store consumes them, so the
// invoice totals are already consistent when the mutation returns.
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Topics.
const (
	TopicJobUpdated = "job.updated"
	TopicJobDeleted = "job.deleted"
)

type Handler func(ctx context.Context, payload any) error

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(topic string, h Handler)
}

type bus struct {
	mu       sync.RWMutex
	log      *zap.Logger
	handlers map[string][]Handler
}

func NewBus(log *zap.Logger) Publisher {
	return &bus{
		log:      log.Named("events"),
		handlers: make(map[string][]Handler),
	}
}

func (b *bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// Publish dispatches in-call. The first handler error aborts the
// dispatch and is returned to the publisher.
func (b *bus) Publish(ctx context.Context, topic string, payload any) error {
	b.mu.RLock()
	handlers := b.handlers[topic]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, payload); err != nil {
			b.log.Error("event handler failed",
				zap.String("topic", topic),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}
