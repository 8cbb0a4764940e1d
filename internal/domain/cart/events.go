package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront/internal/domain/shared"
)

// Event names
const (
	EventNameCartChanged  shared.EventName = "cart.changed"
	EventNameCartRejected shared.EventName = "cart.rejected"
)

// ChangedEvent carries a full snapshot of the cart after a mutation
type ChangedEvent struct {
	shared.BaseDomainEvent
	CartID  uuid.UUID       `json:"cart_id"`
	Entries []Entry         `json:"entries"`
	Total   decimal.Decimal `json:"total"`
	Version int             `json:"version"`
}

// EventName returns the event name
func (*ChangedEvent) EventName() shared.EventName { return EventNameCartChanged }

// Count returns the number of distinct entries in the snapshot
func (e *ChangedEvent) Count() int {
	return len(e.Entries)
}

// NewChangedEvent creates a new ChangedEvent
func NewChangedEvent(c *Cart) *ChangedEvent {
	return &ChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		CartID:          c.ID,
		Entries:         c.Entries(),
		Total:           c.TotalPrice(),
		Version:         c.GetVersion(),
	}
}

// RejectedEvent is published when a cart action cannot be honoured, such as
// adding an unpriced product or checking out an empty cart
type RejectedEvent struct {
	shared.BaseDomainEvent
	ProductID string `json:"product_id,omitempty"`
	Code      string `json:"code"`
	Reason    string `json:"reason"`
}

// EventName returns the event name
func (*RejectedEvent) EventName() shared.EventName { return EventNameCartRejected }

// NewRejectedEvent creates a new RejectedEvent from a domain error
func NewRejectedEvent(productID string, err *shared.DomainError) *RejectedEvent {
	return &RejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		ProductID:       productID,
		Code:            err.Code,
		Reason:          err.Message,
	}
}
