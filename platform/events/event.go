// Package events carries domain events between modules so the journey and
// conversation contexts never import each other directly.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event published on the bus.
type Event interface {
	// EventName identifies the event type for subscription matching.
	EventName() string
	// OccurredAt returns the event timestamp.
	OccurredAt() time.Time
}

// BaseEvent holds the timestamp shared by all events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler receives events it subscribed to.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events to registered handlers.
type Bus interface {
	// Publish delivers the event to every handler subscribed to its name.
	// Delivery is asynchronous.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event and blocks until every handler ran.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name as returned by
	// Event.EventName.
	Subscribe(eventName string, handler Handler)
}
