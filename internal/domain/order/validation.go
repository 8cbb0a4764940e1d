package order

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/weblarek/storefront/internal/domain/shared"
)

// Step identifies a checkout gate
type Step string

const (
	StepDelivery Step = "delivery"
	StepContacts Step = "contacts"
)

// String returns the string representation of Step
func (s Step) String() string {
	return string(s)
}

var (
	ErrDeliveryIncomplete = shared.NewDomainError("DELIVERY_INCOMPLETE", "Delivery details are incomplete")
	ErrContactsIncomplete = shared.NewDomainError("CONTACTS_INCOMPLETE", "Contact details are incomplete")
)

// FieldError describes one invalid draft field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports which step failed and why.
// It matches ErrDeliveryIncomplete or ErrContactsIncomplete with errors.Is.
type ValidationError struct {
	Step   Step         `json:"step"`
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s step invalid: %s", e.Step, strings.Join(parts, "; "))
}

// Unwrap returns the step sentinel
func (e *ValidationError) Unwrap() error {
	if e.Step == StepContacts {
		return ErrContactsIncomplete
	}
	return ErrDeliveryIncomplete
}

// Messages returns the field messages in order
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Message)
	}
	return out
}

// PhoneTag is the validator tag for phone numbers
const PhoneTag = "phone"

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9()\-\s]{7,20}$`)
	validate     = newValidator()
)

// IsPlausiblePhone reports whether s looks like a phone number:
// digits with optional leading plus, spaces, dashes and parentheses,
// holding 10 to 15 digits.
func IsPlausiblePhone(s string) bool {
	s = strings.TrimSpace(s)
	if !phonePattern.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10 && digits <= 15
}

// RegisterPhoneValidation adds the phone tag to v
func RegisterPhoneValidation(v *validator.Validate) error {
	return v.RegisterValidation(PhoneTag, func(fl validator.FieldLevel) bool {
		return IsPlausiblePhone(fl.Field().String())
	})
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := RegisterPhoneValidation(v); err != nil {
		panic(err)
	}
	return v
}

type deliveryFields struct {
	Payment string `json:"payment" validate:"required,oneof=card cash"`
	Address string `json:"address" validate:"required"`
}

type contactFields struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
}

func validateStep(step Step, fields any) error {
	err := validate.Struct(fields)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Step: step}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.Tag() {
	case "payment.required", "payment.oneof":
		return "Выберите способ оплаты"
	case "address.required":
		return "Необходимо указать адрес"
	case "email.required":
		return "Необходимо указать email"
	case "email.email":
		return "Некорректный email"
	case "phone.required":
		return "Необходимо указать телефон"
	case "phone.phone":
		return "Некорректный телефон"
	default:
		return "Некорректное значение"
	}
}
