package shared

import (
	"context"
	"fmt"
)

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
}

// EventHandlerFunc adapts a plain function to EventHandler
type EventHandlerFunc func(ctx context.Context, event DomainEvent) error

// Handle calls f(ctx, event)
func (f EventHandlerFunc) Handle(ctx context.Context, event DomainEvent) error {
	return f(ctx, event)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish synchronously delivers each event to its subscribers, in order
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber subscribes to domain events
type EventSubscriber interface {
	// Subscribe registers a handler for one event name and returns a function
	// that removes the registration
	Subscribe(name EventName, handler EventHandler) (unsubscribe func())
	// SubscribeAll registers a handler that receives every event
	SubscribeAll(handler EventHandler) (unsubscribe func())
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// Subscribe registers a handler typed to one event variant. The event name is
// taken from the zero value of E.
func Subscribe[E DomainEvent](sub EventSubscriber, handler func(ctx context.Context, event E) error) (unsubscribe func()) {
	var zero E
	name := zero.EventName()
	return sub.Subscribe(name, EventHandlerFunc(func(ctx context.Context, event DomainEvent) error {
		typed, ok := event.(E)
		if !ok {
			return fmt.Errorf("unexpected event type: expected %s, got %T", name, event)
		}
		return handler(ctx, typed)
	}))
}

// EventRegistrar records the event variants a bus accepts
type EventRegistrar interface {
	Register(events ...DomainEvent)
}
