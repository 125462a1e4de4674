package vivawallet

import "github.com/verdantlabs/seedmarket-backend/pkg/enums"

// MethodOption is one entry of the region payment method menu.
type MethodOption struct {
	ID          enums.PaymentMethod `json:"id"`
	DisplayName string              `json:"display_name"`
}

var cardOption = MethodOption{ID: enums.PaymentMethodCard, DisplayName: "Credit / Debit Card"}

var methodsByDomain = map[enums.Domain][]MethodOption{
	enums.DomainNL: {
		{ID: enums.PaymentMethodIdeal, DisplayName: "iDEAL"},
	},
	enums.DomainDE: {
		{ID: enums.PaymentMethodSofort, DisplayName: "SOFORT"},
		{ID: enums.PaymentMethodGiropay, DisplayName: "Giropay"},
	},
	enums.DomainBE: {
		{ID: enums.PaymentMethodBancontact, DisplayName: "Bancontact"},
	},
	enums.DomainFR: {
		{ID: enums.PaymentMethodCartesBanc, DisplayName: "Cartes Bancaires"},
	},
}

// MethodsForDomain returns the ordered payment method menu for a storefront
// domain. Informational only: checkout works with any method the hosted page
// offers. The card option is always appended last.
func MethodsForDomain(domain enums.Domain) []MethodOption {
	regional := methodsByDomain[domain]
	out := make([]MethodOption, 0, len(regional)+1)
	out = append(out, regional...)
	return append(out, cardOption)
}
