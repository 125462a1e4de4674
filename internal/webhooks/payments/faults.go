package paymentwebhook

import (
	"context"

	"gorm.io/gorm"

	"github.com/verdantlabs/seedmarket-backend/pkg/db/models"
)

// FaultRecorder persists notifications the reconciler acknowledged but could
// not act on, so they stay visible for manual follow-up.
type FaultRecorder interface {
	Record(ctx context.Context, fault *models.WebhookFault) error
}

type faultRepository struct {
	db *gorm.DB
}

// NewFaultRepository builds a fault recorder bound to the provided DB.
func NewFaultRepository(db *gorm.DB) FaultRecorder {
	return &faultRepository{db: db}
}

func (r *faultRepository) Record(ctx context.Context, fault *models.WebhookFault) error {
	return r.db.WithContext(ctx).Create(fault).Error
}
