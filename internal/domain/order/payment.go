package order

import (
	"strings"

	"github.com/weblarek/storefront/internal/domain/shared"
)

// PaymentMethod is the payment label sent with an order
type PaymentMethod string

const (
	PaymentNone PaymentMethod = ""
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

// ParsePaymentMethod parses a payment label. Matching ignores case and
// surrounding spaces; "online" is accepted as an alias of card.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card", "online":
		return PaymentCard, nil
	case "cash":
		return PaymentCash, nil
	default:
		return PaymentNone, shared.NewDomainError("INVALID_PAYMENT_METHOD", "payment method must be card or cash")
	}
}

// IsSelected reports whether a payment method has been chosen
func (m PaymentMethod) IsSelected() bool {
	return m == PaymentCard || m == PaymentCash
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}
