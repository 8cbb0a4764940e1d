package order

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/weblarek/storefront/internal/domain/shared"
)

// Draft is the in-progress checkout form.
// It moves through two gates: delivery (payment and address) then contacts
// (email and phone). Setters only record values; the gates decide whether
// the draft may advance.
type Draft struct {
	shared.BaseAggregateRoot
	payment PaymentMethod
	address string
	email   string
	phone   string
	step    Step
}

// Snapshot is a comparable copy of the draft fields
type Snapshot struct {
	Payment PaymentMethod `json:"payment"`
	Address string        `json:"address"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Step    Step          `json:"step"`
}

// NewDraft creates an empty draft at the delivery step with no payment selected
func NewDraft() *Draft {
	return &Draft{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		step:              StepDelivery,
	}
}

// Payment returns the selected payment method
func (d *Draft) Payment() PaymentMethod { return d.payment }

// Address returns the delivery address
func (d *Draft) Address() string { return d.address }

// Email returns the contact email
func (d *Draft) Email() string { return d.email }

// Phone returns the contact phone
func (d *Draft) Phone() string { return d.phone }

// Step returns the current checkout step
func (d *Draft) Step() Step { return d.step }

// Snapshot returns a copy of the current fields
func (d *Draft) Snapshot() Snapshot {
	return Snapshot{
		Payment: d.payment,
		Address: d.address,
		Email:   d.email,
		Phone:   d.phone,
		Step:    d.step,
	}
}

// SetPayment selects the payment method
func (d *Draft) SetPayment(m PaymentMethod) {
	d.payment = m
	d.edited()
}

// SetAddress sets the delivery address, trimming surrounding spaces
func (d *Draft) SetAddress(address string) {
	d.address = strings.TrimSpace(address)
	d.edited()
}

// SetEmail sets the contact email, trimming surrounding spaces
func (d *Draft) SetEmail(email string) {
	d.email = strings.TrimSpace(email)
	d.edited()
}

// SetPhone sets the contact phone, trimming surrounding spaces
func (d *Draft) SetPhone(phone string) {
	d.phone = strings.TrimSpace(phone)
	d.edited()
}

// ValidateDelivery checks the delivery gate
func (d *Draft) ValidateDelivery() error {
	return validateStep(StepDelivery, deliveryFields{
		Payment: d.payment.String(),
		Address: d.address,
	})
}

// ValidateContacts checks the contacts gate
func (d *Draft) ValidateContacts() error {
	return validateStep(StepContacts, contactFields{
		Email: d.email,
		Phone: d.phone,
	})
}

// IsDeliveryValid reports whether the delivery gate would pass
func (d *Draft) IsDeliveryValid() bool {
	return d.ValidateDelivery() == nil
}

// IsContactsValid reports whether the contacts gate would pass
func (d *Draft) IsContactsValid() bool {
	return d.ValidateContacts() == nil
}

// CompleteDelivery passes the delivery gate and advances to the contacts
// step. On failure the draft stays where it is and a ValidationFailedEvent
// is recorded.
func (d *Draft) CompleteDelivery() error {
	if err := d.ValidateDelivery(); err != nil {
		d.rejected(err)
		return err
	}
	d.moveTo(StepContacts)
	return nil
}

// CompleteContacts passes the contacts gate. The delivery gate is checked
// again first so a draft cannot skip it.
func (d *Draft) CompleteContacts() error {
	if d.step != StepContacts {
		return shared.NewDomainError("INVALID_STATE", "delivery step is not complete")
	}
	if err := d.ValidateDelivery(); err != nil {
		d.rejected(err)
		return err
	}
	if err := d.ValidateContacts(); err != nil {
		d.rejected(err)
		return err
	}
	return nil
}

// Restart returns the draft to the delivery step keeping its fields
func (d *Draft) Restart() {
	if d.step == StepDelivery {
		return
	}
	d.moveTo(StepDelivery)
}

// Finalize assembles the order to submit from the draft and the cart
// contents. Both gates are verified again here.
func (d *Draft) Finalize(items []string, total decimal.Decimal) (*Order, error) {
	if err := d.ValidateDelivery(); err != nil {
		return nil, err
	}
	if err := d.ValidateContacts(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "order total cannot be negative")
	}

	return &Order{
		DraftID: d.ID,
		Payment: d.payment,
		Address: d.address,
		Email:   d.email,
		Phone:   d.phone,
		Items:   append([]string(nil), items...),
		Total:   total,
	}, nil
}

func (d *Draft) edited() {
	d.IncrementVersion()
	d.Touch()
	d.AddDomainEvent(NewDraftChangedEvent(d))
}

func (d *Draft) moveTo(step Step) {
	from := d.step
	d.step = step
	d.IncrementVersion()
	d.Touch()
	d.AddDomainEvent(NewStepChangedEvent(d.ID, from, step))
}

func (d *Draft) rejected(err error) {
	if verr, ok := err.(*ValidationError); ok {
		d.AddDomainEvent(NewValidationFailedEvent(d.ID, verr))
	}
}

// Order is a finalized draft ready to be sent
type Order struct {
	DraftID uuid.UUID
	Payment PaymentMethod
	Address string
	Email   string
	Phone   string
	Items   []string
	Total   decimal.Decimal
}

// Receipt is the acknowledgement of an accepted order.
// ID and Total are empty when the server sends no body.
type Receipt struct {
	ID    string
	Total decimal.NullDecimal
}

// ChargedTotal returns the server total when present, else fallback
func (r Receipt) ChargedTotal(fallback decimal.Decimal) decimal.Decimal {
	if r.Total.Valid {
		return r.Total.Decimal
	}
	return fallback
}
