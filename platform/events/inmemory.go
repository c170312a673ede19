package events

import (
	"context"
	"sync"

	"dealer_portal_backend/platform/logger"
)

// InMemoryBus dispatches events to subscribed handlers within the process.
// Subscribe is expected to happen during composition-root wiring, before
// any Publish; the mutex only guards against late registration.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for a specific event type.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event to each handler in its own goroutine.
// Handler errors and panics are logged, never propagated to the publisher.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	for _, h := range b.subscribers(event.EventName()) {
		handler := h
		go func() {
			defer b.recoverHandler(event.EventName())
			if err := handler.Handle(context.WithoutCancel(ctx), event); err != nil && b.log != nil {
				b.log.Error("event handler failed", "event", event.EventName(), "error", err)
			}
		}()
	}
}

// PublishSync dispatches the event and waits for all handlers.
// The first handler error is returned.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var firstErr error
	for _, handler := range b.subscribers(event.EventName()) {
		if err := handler.Handle(ctx, event); err != nil {
			if b.log != nil {
				b.log.Error("event handler failed", "event", event.EventName(), "error", err)
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (b *InMemoryBus) subscribers(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.handlers[eventName]
}

func (b *InMemoryBus) recoverHandler(eventName string) {
	if r := recover(); r != nil && b.log != nil {
		b.log.Error("event handler panicked", "event", eventName, "panic", r)
	}
}

// Compile-time check that InMemoryBus implements Bus.
var _ Bus = (*InMemoryBus)(nil)
