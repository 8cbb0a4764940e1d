package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weblarek/storefront/internal/domain/cart"
	"github.com/weblarek/storefront/internal/domain/catalog"
	"github.com/weblarek/storefront/internal/domain/order"
	"github.com/weblarek/storefront/internal/domain/shared"
)

func nopHandler() shared.EventHandler {
	return shared.EventHandlerFunc(func(context.Context, shared.DomainEvent) error { return nil })
}

func TestHandlerRegistry_Register(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newTestHandler("h", nil)

	registry.Register(testEventName, handler)

	handlers := registry.GetHandlers(testEventName)
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	assert.Len(t, registry.GetHandlers(otherEventName), 0)
}

func TestHandlerRegistry_SameHandlerTwice(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newTestHandler("h", nil)

	id1 := registry.Register(testEventName, handler)
	id2 := registry.Register(testEventName, handler)
	assert.NotEqual(t, id1, id2)
	assert.Len(t, registry.GetHandlers(testEventName), 2)

	registry.Unregister(id1)
	assert.Len(t, registry.GetHandlers(testEventName), 1)
}

func TestHandlerRegistry_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.RegisterAll(nopHandler())

	assert.Len(t, registry.GetHandlers(testEventName), 1)
	assert.Len(t, registry.GetHandlers(otherEventName), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	id := registry.Register(testEventName, nopHandler())
	wildcard := registry.RegisterAll(nopHandler())
	assert.Equal(t, 2, registry.Len())

	registry.Unregister(id)
	registry.Unregister(999)
	assert.Equal(t, 1, registry.Len())

	registry.Unregister(wildcard)
	assert.Empty(t, registry.GetHandlers(testEventName))
}

func TestHandlerRegistry_SnapshotIsIndependent(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.Register(testEventName, nopHandler())

	snapshot := registry.GetHandlers(testEventName)
	registry.Register(testEventName, nopHandler())

	assert.Len(t, snapshot, 1)
	assert.Len(t, registry.GetHandlers(testEventName), 2)
}

func TestRegisterAllEvents(t *testing.T) {
	registry := NewEventRegistry()
	RegisterAllEvents(registry)

	assert.Equal(t, []shared.EventName{
		cart.EventNameCartChanged,
		cart.EventNameCartRejected,
		catalog.EventNameCatalogLoadFailed,
		catalog.EventNameCatalogLoaded,
		order.EventNameDraftChanged,
		order.EventNameStepChanged,
		order.EventNameSubmissionFailed,
		order.EventNameOrderSubmitted,
		order.EventNameValidationFailed,
	}, registry.Names())

	assert.True(t, registry.Matches(&cart.ChangedEvent{}))
	assert.False(t, registry.IsRegistered(testEventName))
}
