package types

import "github.com/shopspring/decimal"

// LineItem is the snapshot of one ordered catalog entry. The intake flow
// stores it verbatim on the order; nothing downstream reinterprets it.
type LineItem struct {
	ProductSlug string          `json:"product_slug" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
	Qty         int             `json:"qty" validate:"required,min=1"`
}

// LineItems is persisted as a JSONB payload via GORM's json serializer.
type LineItems []LineItem

// Total sums unit price times quantity across all entries.
func (items LineItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	return total
}
