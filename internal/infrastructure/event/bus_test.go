package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weblarek/storefront/internal/domain/cart"
	"github.com/weblarek/storefront/internal/domain/shared"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testEventName  shared.EventName = "test.happened"
	otherEventName shared.EventName = "test.other"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func (*testEvent) EventName() shared.EventName { return testEventName }

type otherEvent struct {
	shared.BaseDomainEvent
}

func (*otherEvent) EventName() shared.EventName { return otherEventName }

func newTestEvent(data string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		Data:            data,
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	name    string
	order   *[]string
	handled []shared.DomainEvent
	err     error
	mu      sync.Mutex
}

func newTestHandler(name string, order *[]string) *testHandler {
	return &testHandler{
		name:    name,
		order:   order,
		handled: make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.order != nil {
		*h.order = append(*h.order, h.name)
	}
	return h.err
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("h", nil)
	bus.Subscribe(testEventName, handler)

	event := newTestEvent("payload")
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_Publish_MultipleEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("h", nil)
	bus.Subscribe(testEventName, handler)

	err := bus.Publish(context.Background(), newTestEvent("1"), newTestEvent("2"))

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 2)
}

func TestInMemoryEventBus_Publish_RegistrationOrder(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	var order []string

	bus.Subscribe(testEventName, newTestHandler("first", &order))
	bus.SubscribeAll(newTestHandler("wildcard", &order))
	bus.Subscribe(testEventName, newTestHandler("third", &order))
	bus.Subscribe(otherEventName, newTestHandler("other", &order))

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("x")))

	assert.Equal(t, []string{"first", "wildcard", "third"}, order)
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	wildcardHandler := newTestHandler("all", nil)
	bus.SubscribeAll(wildcardHandler)

	err := bus.Publish(context.Background(), newTestEvent("x"), &otherEvent{BaseDomainEvent: shared.NewBaseDomainEvent()})

	require.NoError(t, err)
	assert.Len(t, wildcardHandler.getHandled(), 2)
}

func TestInMemoryEventBus_Publish_HandlerError(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	handler1 := newTestHandler("h1", nil)
	handler1.err = errors.New("handler error")
	handler2 := newTestHandler("h2", nil)
	bus.Subscribe(testEventName, handler1)
	bus.Subscribe(testEventName, handler2)

	event := newTestEvent("x")
	err := bus.Publish(context.Background(), event)

	// Should not return error, but continue with other handlers
	require.NoError(t, err)
	assert.Len(t, handler1.getHandled(), 1)
	assert.Len(t, handler2.getHandled(), 1)

	entries := logs.FilterMessage("handler failed to process event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, string(testEventName), entries[0].ContextMap()["event_name"])
	assert.Equal(t, event.EventID().String(), entries[0].ContextMap()["event_id"])
}

func TestInMemoryEventBus_Publish_HandlerPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	var failures []shared.EventName
	bus := NewInMemoryEventBus(zap.New(core), WithFailureHook(func(_ context.Context, name shared.EventName, _ error) {
		failures = append(failures, name)
	}))

	bus.Subscribe(testEventName, shared.EventHandlerFunc(func(context.Context, shared.DomainEvent) error {
		panic("boom")
	}))
	after := newTestHandler("after", nil)
	bus.Subscribe(testEventName, after)

	require.NotPanics(t, func() {
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("x")))
	})

	assert.Len(t, after.getHandled(), 1)
	assert.Equal(t, []shared.EventName{testEventName}, failures)
	entries := logs.FilterMessage("handler failed to process event").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "boom")
}

func TestInMemoryEventBus_Publish_NoMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("h", nil)
	bus.Subscribe(otherEventName, handler)

	err := bus.Publish(context.Background(), newTestEvent("x"))

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 0)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("h", nil)
	unsubscribe := bus.Subscribe(testEventName, handler)

	_ = bus.Publish(context.Background(), newTestEvent("1"))
	assert.Len(t, handler.getHandled(), 1)

	unsubscribe()
	unsubscribe()

	_ = bus.Publish(context.Background(), newTestEvent("2"))
	assert.Len(t, handler.getHandled(), 1) // Still 1, not 2
}

func TestInMemoryEventBus_UnsubscribeDuringPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	var order []string

	var unsubscribe func()
	unsubscribe = bus.Subscribe(testEventName, shared.EventHandlerFunc(func(context.Context, shared.DomainEvent) error {
		order = append(order, "once")
		unsubscribe()
		return nil
	}))
	bus.Subscribe(testEventName, newTestHandler("stays", &order))

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("1")))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("2")))

	assert.Equal(t, []string{"once", "stays", "stays"}, order)
}

func TestInMemoryEventBus_EventRegistry(t *testing.T) {
	registry := NewEventRegistry()
	registry.Register((*testEvent)(nil))
	bus := NewInMemoryEventBus(zap.NewNop(), WithEventRegistry(registry))

	handler := newTestHandler("all", nil)
	bus.SubscribeAll(handler)

	t.Run("registered event is delivered", func(t *testing.T) {
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("x")))
		assert.Len(t, handler.getHandled(), 1)
	})

	t.Run("unregistered event is rejected", func(t *testing.T) {
		err := bus.Publish(context.Background(), &otherEvent{BaseDomainEvent: shared.NewBaseDomainEvent()}, newTestEvent("y"))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUnknownEvent)
		assert.Len(t, handler.getHandled(), 2)
	})
}

func TestSubscribe_Typed(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	var got []string
	shared.Subscribe(bus, func(_ context.Context, e *testEvent) error {
		got = append(got, e.Data)
		return nil
	})
	var carts int
	shared.Subscribe(bus, func(_ context.Context, e *cart.ChangedEvent) error {
		carts++
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("a"), newTestEvent("b")))

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Zero(t, carts)
}

func TestInMemoryEventBus_NestedPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	var order []string

	shared.Subscribe(bus, func(ctx context.Context, e *testEvent) error {
		order = append(order, "test:"+e.Data)
		return bus.Publish(ctx, &otherEvent{BaseDomainEvent: shared.NewBaseDomainEvent()})
	})
	shared.Subscribe(bus, func(context.Context, *otherEvent) error {
		order = append(order, "other")
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("x")))
	assert.Equal(t, []string{"test:x", "other"}, order)
}
