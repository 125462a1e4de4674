package orders

import (
	"github.com/shopspring/decimal"

	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
	"github.com/verdantlabs/seedmarket-backend/pkg/types"
)

// CreateOrderInput is one checkout submission. Domain is resolved upstream
// by the storefront middleware; Items are stored verbatim on the order.
type CreateOrderInput struct {
	Amount          decimal.Decimal
	Items           types.LineItems
	CustomerEmail   string
	CustomerName    string
	Domain          enums.Domain
	PreferredMethod *enums.PaymentMethod
}

// CreateOrderResult carries what the storefront needs to redirect the
// customer to the hosted checkout page.
type CreateOrderResult struct {
	OrderCode   string
	CheckoutURL string
}

// ListFilter narrows the admin order listing.
type ListFilter struct {
	Status *enums.OrderStatus
	Domain *enums.Domain
}
