package enums

import "fmt"

// PaymentMethod describes how a buyer intends to settle an order. The value is
// a recorded intent only; no gateway call is made.
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodOVO          PaymentMethod = "ovo"
	PaymentMethodGoPay        PaymentMethod = "gopay"
	PaymentMethodDana         PaymentMethod = "dana"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodBankTransfer,
	PaymentMethodOVO,
	PaymentMethodGoPay,
	PaymentMethodDana,
	PaymentMethodCreditCard,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
