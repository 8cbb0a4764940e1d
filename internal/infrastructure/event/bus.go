package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/weblarek/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// Option configures an InMemoryEventBus
type Option func(*InMemoryEventBus)

// WithEventRegistry restricts the bus to the registered event variants.
// Publishing anything else fails with shared.ErrUnknownEvent.
func WithEventRegistry(registry *EventRegistry) Option {
	return func(b *InMemoryEventBus) {
		b.events = registry
	}
}

// WithFailureHook calls fn for every handler that returned an error or panicked
func WithFailureHook(fn func(ctx context.Context, name shared.EventName, err error)) Option {
	return func(b *InMemoryEventBus) {
		b.onFailure = fn
	}
}

// InMemoryEventBus implements EventBus with synchronous in-memory pub/sub.
//
// Publish runs every matching handler in registration order and returns once
// all of them finished. A handler that fails or panics is logged and does
// not stop the handlers after it.
type InMemoryEventBus struct {
	registry  *HandlerRegistry
	events    *EventRegistry
	logger    *zap.Logger
	onFailure func(ctx context.Context, name shared.EventName, err error)
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...Option) *InMemoryEventBus {
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to their handlers synchronously.
// Handler failures are not returned; only unregistered events are.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error
	for _, event := range events {
		if b.events != nil && !b.events.Matches(event) {
			b.logger.Error("rejected unregistered event",
				zap.String("event_name", event.EventName().String()),
				zap.String("event_type", fmt.Sprintf("%T", event)),
			)
			errs = append(errs, fmt.Errorf("%w: %s", shared.ErrUnknownEvent, event.EventName()))
			continue
		}

		// Snapshot so handlers may subscribe or unsubscribe while being called
		handlers := b.registry.GetHandlers(event.EventName())

		for _, handler := range handlers {
			if err := b.dispatchToHandler(ctx, handler, event); err != nil {
				// Log error but continue with other handlers
				b.logger.Error("handler failed to process event",
					zap.String("event_name", event.EventName().String()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
				if b.onFailure != nil {
					b.onFailure(ctx, event.EventName(), err)
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers a handler for one event name
func (b *InMemoryEventBus) Subscribe(name shared.EventName, handler shared.EventHandler) func() {
	if b.events != nil && !b.events.IsRegistered(name) {
		b.logger.Warn("subscribing to unregistered event", zap.String("event_name", name.String()))
	}
	id := b.registry.Register(name, handler)
	b.logger.Debug("handler subscribed", zap.String("event_name", name.String()))
	return b.unsubscriber(id)
}

// SubscribeAll registers a handler for every event
func (b *InMemoryEventBus) SubscribeAll(handler shared.EventHandler) func() {
	id := b.registry.RegisterAll(handler)
	b.logger.Debug("wildcard handler subscribed")
	return b.unsubscriber(id)
}

func (b *InMemoryEventBus) unsubscriber(id uint64) func() {
	return func() {
		b.registry.Unregister(id)
		b.logger.Debug("handler unsubscribed")
	}
}

// dispatchToHandler safely dispatches an event to a handler
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()

	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
