package event

import (
	"reflect"
	"slices"
	"sync"

	"github.com/weblarek/storefront/internal/domain/cart"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/shared"
)

// EventRegistry is the closed set of event variants a bus accepts,
// keyed by name
type EventRegistry struct {
	mu    sync.RWMutex
	types map[shared.EventName]reflect.Type
}

// NewEventRegistry creates an empty event registry
func NewEventRegistry() *EventRegistry {
	return &EventRegistry{
		types: make(map[shared.EventName]reflect.Type),
	}
}

// Register records event variants. A nil pointer of the concrete type is
// enough since only the name and type are read.
func (r *EventRegistry) Register(events ...shared.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range events {
		r.types[e.EventName()] = reflect.TypeOf(e)
	}
}

// IsRegistered reports whether name is part of the set
func (r *EventRegistry) IsRegistered(name shared.EventName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[name]
	return ok
}

// Matches reports whether event is registered under its name with its own type
func (r *EventRegistry) Matches(event shared.DomainEvent) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[event.EventName()]
	return ok && t == reflect.TypeOf(event)
}

// Names returns the registered names, sorted
func (r *EventRegistry) Names() []shared.EventName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]shared.EventName, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegisterAllEvents registers every state event published by the domain
func RegisterAllEvents(r shared.EventRegistrar) {
	// Catalog
	r.Register(
		(*catalog.LoadedEvent)(nil),
		(*catalog.LoadFailedEvent)(nil),
	)

	// Cart
	r.Register(
		(*cart.ChangedEvent)(nil),
		(*cart.RejectedEvent)(nil),
	)

	// Order
	r.Register(
		(*order.DraftChangedEvent)(nil),
		(*order.StepChangedEvent)(nil),
		(*order.ValidationFailedEvent)(nil),
		(*order.SubmittedEvent)(nil),
		(*order.SubmissionFailedEvent)(nil),
	)
}

var _ shared.EventRegistrar = (*EventRegistry)(nil)
