package event

import (
	"sync"

	"github.com/weblarek/storefront/internal/domain/shared"
)

// subscription is one handler registration.
// An empty name with all set receives every event.
type subscription struct {
	id      uint64
	name    shared.EventName
	all     bool
	handler shared.EventHandler
}

// HandlerRegistry manages event handler registrations.
// Handlers are kept in one list in registration order so that named and
// wildcard handlers run in the order they subscribed.
type HandlerRegistry struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewHandlerRegistry creates a new handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		subs: make([]subscription, 0),
	}
}

// Register adds a handler for one event name and returns its registration id
func (r *HandlerRegistry) Register(name shared.EventName, handler shared.EventHandler) uint64 {
	return r.add(subscription{name: name, handler: handler})
}

// RegisterAll adds a handler that receives every event
func (r *HandlerRegistry) RegisterAll(handler shared.EventHandler) uint64 {
	return r.add(subscription{all: true, handler: handler})
}

// Unregister removes a registration. Unknown ids are ignored.
func (r *HandlerRegistry) Unregister(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return
		}
	}
}

// GetHandlers returns a snapshot of the handlers for an event name,
// wildcard handlers included, in registration order
func (r *HandlerRegistry) GetHandlers(name shared.EventName) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]shared.EventHandler, 0, len(r.subs))
	for _, s := range r.subs {
		if s.all || s.name == name {
			result = append(result, s.handler)
		}
	}
	return result
}

// Len returns the number of registrations
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

func (r *HandlerRegistry) add(s subscription) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s.id = r.nextID
	r.subs = append(r.subs, s)
	return s.id
}
