package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/verdantlabs/seedmarket-backend/pkg/types"
)

// WebhookFault records a provider notification the reconciler decided it
// could not act on. The event was acknowledged to stop redelivery, so this
// row is the only durable trace left for manual follow-up.
type WebhookFault struct {
	ID                uuid.UUID     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventType         string        `gorm:"column:event_type;not null"`
	TransactionID     *string       `gorm:"column:transaction_id"`
	ProviderOrderCode *string       `gorm:"column:provider_order_code"`
	Reason            string        `gorm:"column:reason;not null"`
	Payload           types.JSONMap `gorm:"column:payload;type:jsonb;serializer:json"`
	ResolvedAt        *time.Time    `gorm:"column:resolved_at"`
	CreatedAt         time.Time     `gorm:"column:created_at;autoCreateTime"`
}
