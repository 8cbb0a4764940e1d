package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventName identifies an event variant on the bus
type EventName string

// String returns the string representation of EventName
func (n EventName) String() string {
	return string(n)
}

// DomainEvent represents an event that occurred in the storefront.
//
// EventName must not dereference its receiver: the bus calls it on a nil
// pointer of the concrete type to resolve typed subscriptions.
type DomainEvent interface {
	EventID() uuid.UUID
	EventName() EventName
	OccurredAt() time.Time
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseDomainEvent creates a new base domain event
func NewBaseDomainEvent() BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Timestamp: time.Now(),
	}
}
