package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one seed catalog entry. Domains lists the storefront regions
// the product is sold in, stored as a JSON array of domain tags.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex"`
	Name        string          `gorm:"column:name;not null"`
	Category    string          `gorm:"column:category;not null"`
	Description *string         `gorm:"column:description"`
	PackSize    int             `gorm:"column:pack_size;not null;default:1"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Domains     []string        `gorm:"column:domains;type:jsonb;serializer:json"`
	Active      bool            `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
