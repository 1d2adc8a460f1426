package checkout

import (
	"errors"
	"regexp"
	"strings"

	"github.com/niksmo/web-larek/internal/core/domain"
)

var (
	ErrPaymentRequired = errors.New("payment method must be online or cash")
	ErrAddressRequired = errors.New("delivery address is required")
	ErrEmailInvalid    = errors.New("valid email address is required")
	ErrPhoneInvalid    = errors.New("valid phone number is required")
	ErrNoPricedItems   = errors.New("order must contain at least one priced item")
)

var (
	emailRe = regexp.MustCompile(
		`^[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`,
	)
	phoneRe  = regexp.MustCompile(`^\+?[0-9][0-9\s()-]*$`)
	digitsRe = regexp.MustCompile(`[0-9]`)
)

// A FormState is the aggregate validity of one checkout step,
// recomputed fresh on every field change, never accumulated.
type FormState struct {
	Valid  bool
	Errors []string
}

func formState(errs ...error) FormState {
	s := FormState{Valid: true}
	for _, err := range errs {
		if err != nil {
			s.Valid = false
			s.Errors = append(s.Errors, err.Error())
		}
	}
	return s
}

func ValidatePayment(v domain.PaymentMethod) error {
	if v == domain.PaymentOnline || v == domain.PaymentCash {
		return nil
	}
	return ErrPaymentRequired
}

func ValidateAddress(v string) error {
	if strings.TrimSpace(v) == "" {
		return ErrAddressRequired
	}
	return nil
}

func ValidateEmail(v string) error {
	if !emailRe.MatchString(v) {
		return ErrEmailInvalid
	}
	return nil
}

// ValidatePhone accepts an optional leading plus, a 1-3 digit country
// code and grouped digits, 7 to 15 digits in total.
func ValidatePhone(v string) error {
	if !phoneRe.MatchString(v) {
		return ErrPhoneInvalid
	}
	if n := len(digitsRe.FindAllString(v, -1)); n < 7 || n > 15 {
		return ErrPhoneInvalid
	}
	return nil
}

// ValidateOrderStep validates only the order step's own fields.
func ValidateOrderStep(payment domain.PaymentMethod, address string) FormState {
	return formState(
		ValidatePayment(payment),
		ValidateAddress(address),
	)
}

// ValidateContacts validates only the contacts step's own fields.
func ValidateContacts(email, phone string) FormState {
	return formState(
		ValidateEmail(email),
		ValidatePhone(phone),
	)
}

// ValidateOrder validates the fully assembled order at submission
// time, including eligibility: an order with zero priced items is
// rejected.
func ValidateOrder(o domain.Order) FormState {
	errs := []error{
		ValidatePayment(o.Payment),
		ValidateAddress(o.Address),
		ValidateEmail(o.Email),
		ValidatePhone(o.Phone),
	}
	if len(o.Items) == 0 || o.Total <= 0 {
		errs = append(errs, ErrNoPricedItems)
	}
	return formState(errs...)
}
