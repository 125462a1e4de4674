package enums

import "fmt"

// PaymentMethod is the provider-side method id a customer can preselect on
// the hosted checkout page.
type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodIdeal      PaymentMethod = "ideal"
	PaymentMethodSofort     PaymentMethod = "sofort"
	PaymentMethodGiropay    PaymentMethod = "giropay"
	PaymentMethodBancontact PaymentMethod = "bancontact"
	PaymentMethodCartesBanc PaymentMethod = "cartes_bancaires"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodCard,
	PaymentMethodIdeal,
	PaymentMethodSofort,
	PaymentMethodGiropay,
	PaymentMethodBancontact,
	PaymentMethodCartesBanc,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the method id is recognized.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
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
