package storefront

import (
	"github.com/weblarek/storefront/internal/domain/shared"
)

// Intent names emitted by views
const (
	IntentProductOpen    shared.EventName = "ui.product_open"
	IntentCartAdd        shared.EventName = "ui.cart_add"
	IntentCartRemove     shared.EventName = "ui.cart_remove"
	IntentCartOpen       shared.EventName = "ui.cart_open"
	IntentCheckoutStart  shared.EventName = "ui.checkout_start"
	IntentDeliverySubmit shared.EventName = "ui.delivery_submit"
	IntentContactsSubmit shared.EventName = "ui.contacts_submit"
	IntentDraftEdit      shared.EventName = "ui.draft_edit"
	IntentModalClose     shared.EventName = "ui.modal_close"
	IntentCatalogReload  shared.EventName = "ui.catalog_reload"
)

// DraftField names an editable field of the order form
type DraftField string

// Draft fields
const (
	FieldPayment DraftField = "payment"
	FieldAddress DraftField = "address"
	FieldEmail   DraftField = "email"
	FieldPhone   DraftField = "phone"
)

// ProductOpenIntent asks for the preview of a product
type ProductOpenIntent struct {
	shared.BaseDomainEvent
	ProductID string `json:"product_id"`
}

// EventName returns the event name
func (*ProductOpenIntent) EventName() shared.EventName { return IntentProductOpen }

// NewProductOpenIntent creates a new ProductOpenIntent
func NewProductOpenIntent(productID string) *ProductOpenIntent {
	return &ProductOpenIntent{BaseDomainEvent: shared.NewBaseDomainEvent(), ProductID: productID}
}

// CartAddIntent is the buy action of a product
type CartAddIntent struct {
	shared.BaseDomainEvent
	ProductID string `json:"product_id"`
}

// EventName returns the event name
func (*CartAddIntent) EventName() shared.EventName { return IntentCartAdd }

// NewCartAddIntent creates a new CartAddIntent
func NewCartAddIntent(productID string) *CartAddIntent {
	return &CartAddIntent{BaseDomainEvent: shared.NewBaseDomainEvent(), ProductID: productID}
}

// CartRemoveIntent removes a product entry from the cart
type CartRemoveIntent struct {
	shared.BaseDomainEvent
	ProductID string `json:"product_id"`
}

// EventName returns the event name
func (*CartRemoveIntent) EventName() shared.EventName { return IntentCartRemove }

// NewCartRemoveIntent creates a new CartRemoveIntent
func NewCartRemoveIntent(productID string) *CartRemoveIntent {
	return &CartRemoveIntent{BaseDomainEvent: shared.NewBaseDomainEvent(), ProductID: productID}
}

// CartOpenIntent shows the cart
type CartOpenIntent struct {
	shared.BaseDomainEvent
}

// EventName returns the event name
func (*CartOpenIntent) EventName() shared.EventName { return IntentCartOpen }

// NewCartOpenIntent creates a new CartOpenIntent
func NewCartOpenIntent() *CartOpenIntent {
	return &CartOpenIntent{BaseDomainEvent: shared.NewBaseDomainEvent()}
}

// CheckoutStartIntent opens the delivery step of the order form
type CheckoutStartIntent struct {
	shared.BaseDomainEvent
}

// EventName returns the event name
func (*CheckoutStartIntent) EventName() shared.EventName { return IntentCheckoutStart }

// NewCheckoutStartIntent creates a new CheckoutStartIntent
func NewCheckoutStartIntent() *CheckoutStartIntent {
	return &CheckoutStartIntent{BaseDomainEvent: shared.NewBaseDomainEvent()}
}

// DeliverySubmitIntent carries the delivery form and asks to advance.
// An empty Payment keeps the method already selected on the draft.
type DeliverySubmitIntent struct {
	shared.BaseDomainEvent
	Payment string `json:"payment"`
	Address string `json:"address"`
}

// EventName returns the event name
func (*DeliverySubmitIntent) EventName() shared.EventName { return IntentDeliverySubmit }

// NewDeliverySubmitIntent creates a new DeliverySubmitIntent
func NewDeliverySubmitIntent(payment, address string) *DeliverySubmitIntent {
	return &DeliverySubmitIntent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		Payment:         payment,
		Address:         address,
	}
}

// ContactsSubmitIntent carries the contacts form and asks to place the order
type ContactsSubmitIntent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// EventName returns the event name
func (*ContactsSubmitIntent) EventName() shared.EventName { return IntentContactsSubmit }

// NewContactsSubmitIntent creates a new ContactsSubmitIntent
func NewContactsSubmitIntent(email, phone string) *ContactsSubmitIntent {
	return &ContactsSubmitIntent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		Email:           email,
		Phone:           phone,
	}
}

// DraftEditIntent is a single field change on the order form
type DraftEditIntent struct {
	shared.BaseDomainEvent
	Field DraftField `json:"field"`
	Value string     `json:"value"`
}

// EventName returns the event name
func (*DraftEditIntent) EventName() shared.EventName { return IntentDraftEdit }

// NewDraftEditIntent creates a new DraftEditIntent
func NewDraftEditIntent(field DraftField, value string) *DraftEditIntent {
	return &DraftEditIntent{
		BaseDomainEvent: shared.NewBaseDomainEvent(),
		Field:           field,
		Value:           value,
	}
}

// ModalCloseIntent closes the overlay
type ModalCloseIntent struct {
	shared.BaseDomainEvent
}

// EventName returns the event name
func (*ModalCloseIntent) EventName() shared.EventName { return IntentModalClose }

// NewModalCloseIntent creates a new ModalCloseIntent
func NewModalCloseIntent() *ModalCloseIntent {
	return &ModalCloseIntent{BaseDomainEvent: shared.NewBaseDomainEvent()}
}

// CatalogReloadIntent fetches the catalog again
type CatalogReloadIntent struct {
	shared.BaseDomainEvent
}

// EventName returns the event name
func (*CatalogReloadIntent) EventName() shared.EventName { return IntentCatalogReload }

// NewCatalogReloadIntent creates a new CatalogReloadIntent
func NewCatalogReloadIntent() *CatalogReloadIntent {
	return &CatalogReloadIntent{BaseDomainEvent: shared.NewBaseDomainEvent()}
}

// RegisterIntents adds every intent variant to r
func RegisterIntents(r shared.EventRegistrar) {
	r.Register(
		(*ProductOpenIntent)(nil),
		(*CartAddIntent)(nil),
		(*CartRemoveIntent)(nil),
		(*CartOpenIntent)(nil),
		(*CheckoutStartIntent)(nil),
		(*DeliverySubmitIntent)(nil),
		(*ContactsSubmitIntent)(nil),
		(*DraftEditIntent)(nil),
		(*ModalCloseIntent)(nil),
		(*CatalogReloadIntent)(nil),
	)
}
