// Package testutil provides common test utilities for the storefront.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/weblarek/storefront/internal/domain/shared"
)

// RecordingHandler is a shared.EventHandler that records every event it sees.
type RecordingHandler struct {
	mu      sync.Mutex
	handled []shared.DomainEvent
	err     error
}

// NewRecordingHandler creates a new recording handler.
func NewRecordingHandler() *RecordingHandler {
	return &RecordingHandler{
		handled: make([]shared.DomainEvent, 0),
	}
}

// Handle records the event.
func (h *RecordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns all handled events.
func (h *RecordingHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]shared.DomainEvent, len(h.handled))
	copy(result, h.handled)
	return result
}

// HandledCount returns the number of handled events.
func (h *RecordingHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// Names returns the names of the handled events in order.
func (h *RecordingHandler) Names() []shared.EventName {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]shared.EventName, 0, len(h.handled))
	for _, e := range h.handled {
		names = append(names, e.EventName())
	}
	return names
}

// SetError sets the error to return from Handle.
func (h *RecordingHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Reset clears all handled events.
func (h *RecordingHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = make([]shared.DomainEvent, 0)
	h.err = nil
}

// EventsOf returns the handled events of type E in order.
func EventsOf[E shared.DomainEvent](h *RecordingHandler) []E {
	var out []E
	for _, e := range h.Handled() {
		if typed, ok := e.(E); ok {
			out = append(out, typed)
		}
	}
	return out
}

// LastOf returns the most recent handled event of type E.
func LastOf[E shared.DomainEvent](h *RecordingHandler) (E, bool) {
	events := EventsOf[E](h)
	if len(events) == 0 {
		var zero E
		return zero, false
	}
	return events[len(events)-1], true
}

// WaitForCondition waits for a condition to become true.
// Returns true if the condition was met, false if timeout occurred.
func WaitForCondition(t *testing.T, condition func() bool, timeout, interval time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return condition()
}

// WaitForEventCount waits until the handler has processed at least n events.
func WaitForEventCount(t *testing.T, handler *RecordingHandler, count int, timeout time.Duration) bool {
	t.Helper()

	return WaitForCondition(t, func() bool {
		return handler.HandledCount() >= count
	}, timeout, 10*time.Millisecond)
}
