package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront/internal/domain/shared"
)

// Event names
const (
	EventNameDraftChanged     shared.EventName = "order.draft_changed"
	EventNameStepChanged      shared.EventName = "order.step_changed"
	EventNameValidationFailed shared.EventName = "order.validation_failed"
	EventNameOrderSubmitted   shared.EventName = "order.submitted"
	EventNameSubmissionFailed shared.EventName = "order.submission_failed"
)

// DraftChangedEvent is published after every field edit with live validity
type DraftChangedEvent struct {
	shared.BaseDomainEvent
	DraftID       uuid.UUID `json:"draft_id"`
	Draft         Snapshot  `json:"draft"`
	DeliveryValid bool      `json:"delivery_valid"`
	ContactsValid bool      `json:"contacts_valid"`
}

// EventName returns the event name
func (*DraftChangedEvent) EventName() shared.EventName { return EventNameDraftChanged }

// NewDraftChangedEvent creates a new DraftChangedEvent
func NewDraftChangedEvent(d *Draft) *DraftChangedEvent {
	return &DraftChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		DraftID:         d.ID,
		Draft:           d.Snapshot(),
		DeliveryValid:   d.IsDeliveryValid(),
		ContactsValid:   d.IsContactsValid(),
	}
}

// StepChangedEvent is published when the draft moves between steps
type StepChangedEvent struct {
	shared.BaseDomainEvent
	DraftID uuid.UUID `json:"draft_id"`
	From    Step      `json:"from"`
	To      Step      `json:"to"`
}

// EventName returns the event name
func (*StepChangedEvent) EventName() shared.EventName { return EventNameStepChanged }

// NewStepChangedEvent creates a new StepChangedEvent
func NewStepChangedEvent(draftID uuid.UUID, from, to Step) *StepChangedEvent {
	return &StepChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		DraftID:         draftID,
		From:            from,
		To:              to,
	}
}

// ValidationFailedEvent is published when a gate rejects the draft
type ValidationFailedEvent struct {
	shared.BaseDomainEvent
	DraftID uuid.UUID    `json:"draft_id"`
	Step    Step         `json:"step"`
	Fields  []FieldError `json:"fields"`
}

// EventName returns the event name
func (*ValidationFailedEvent) EventName() shared.EventName { return EventNameValidationFailed }

// Messages returns the field messages in order
func (e *ValidationFailedEvent) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Message)
	}
	return out
}

// NewValidationFailedEvent creates a new ValidationFailedEvent
func NewValidationFailedEvent(draftID uuid.UUID, err *ValidationError) *ValidationFailedEvent {
	return &ValidationFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		DraftID:         draftID,
		Step:            err.Step,
		Fields:          append([]FieldError(nil), err.Fields...),
	}
}

// SubmittedEvent is published when the API accepted an order
type SubmittedEvent struct {
	shared.BaseDomainEvent
	DraftID uuid.UUID       `json:"draft_id"`
	OrderID string          `json:"order_id,omitempty"`
	Items   []string        `json:"items"`
	Total   decimal.Decimal `json:"total"`
}

// EventName returns the event name
func (*SubmittedEvent) EventName() shared.EventName { return EventNameOrderSubmitted }

// NewSubmittedEvent creates a new SubmittedEvent. Total is the charged
// total reported by the API, or the local total when none was reported.
func NewSubmittedEvent(o *Order, receipt Receipt) *SubmittedEvent {
	return &SubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		DraftID:         o.DraftID,
		OrderID:         receipt.ID,
		Items:           append([]string(nil), o.Items...),
		Total:           receipt.ChargedTotal(o.Total),
	}
}

// SubmissionFailedEvent is published when sending an order failed.
// The cart and draft are left as they were.
type SubmissionFailedEvent struct {
	shared.BaseDomainEvent
	DraftID uuid.UUID `json:"draft_id"`
	Reason  string    `json:"reason"`
}

// EventName returns the event name
func (*SubmissionFailedEvent) EventName() shared.EventName { return EventNameSubmissionFailed }

// NewSubmissionFailedEvent creates a new SubmissionFailedEvent
func NewSubmissionFailedEvent(draftID uuid.UUID, err error) *SubmissionFailedEvent {
	return &SubmissionFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		DraftID:         draftID,
		Reason:          err.Error(),
	}
}
