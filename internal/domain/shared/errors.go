package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound       = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput   = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState   = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrNotPurchasable = NewDomainError("NOT_PURCHASABLE", "Product is not for sale")
	ErrEmptyCart      = NewDomainError("EMPTY_CART", "Cart is empty")
	ErrOrderRejected  = NewDomainError("ORDER_REJECTED", "Order cannot be placed")
	ErrUnknownEvent   = NewDomainError("UNKNOWN_EVENT", "Event is not registered on the bus")
)
