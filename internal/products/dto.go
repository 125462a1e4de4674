package products

import (
	"github.com/shopspring/decimal"

	"github.com/verdantlabs/seedmarket-backend/pkg/db/models"
)

// ProductView is the public catalog shape.
type ProductView struct {
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	PackSize    int             `json:"pack_size"`
	Price       decimal.Decimal `json:"price"`
}

func viewOf(p models.Product) ProductView {
	view := ProductView{
		Slug:     p.Slug,
		Name:     p.Name,
		Category: p.Category,
		PackSize: p.PackSize,
		Price:    p.Price,
	}
	if p.Description != nil {
		view.Description = *p.Description
	}
	return view
}
