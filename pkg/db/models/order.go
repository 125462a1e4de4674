package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
	"github.com/verdantlabs/seedmarket-backend/pkg/types"
)

// Order is the durable record of one checkout attempt and its payment
// outcome. OrderCode is the human-readable identity shared with the payment
// provider; PaymentProviderRef is the provider's own order code, written at
// most once after session creation succeeds. PaymentID, PaymentMethod and
// TransactionDate are populated only when the order settles.
type Order struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderCode          string            `gorm:"column:order_code;not null;uniqueIndex"`
	CustomerEmail      string            `gorm:"column:customer_email;not null"`
	CustomerName       string            `gorm:"column:customer_name;not null"`
	Amount             decimal.Decimal   `gorm:"column:amount;type:numeric(12,2);not null"`
	Domain             enums.Domain      `gorm:"column:domain_id;type:text;not null"`
	Status             enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Items              types.LineItems   `gorm:"column:items;type:jsonb;serializer:json"`
	PaymentProviderRef *string           `gorm:"column:payment_provider_ref;uniqueIndex"`
	PaymentID          *string           `gorm:"column:payment_id"`
	PaymentMethod      *string           `gorm:"column:payment_method"`
	TransactionDate    *time.Time        `gorm:"column:transaction_date"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
