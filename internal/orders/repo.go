package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantlabs/seedmarket-backend/pkg/db/models"
	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
	"github.com/verdantlabs/seedmarket-backend/pkg/pagination"
)

// Repository is the persistence surface for orders. Terminal transitions are
// conditional updates: they only fire while the row is still pending, so a
// late failure event can never clobber a settled order.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByOrderCode(ctx context.Context, orderCode string) (*models.Order, error)
	FindByProviderRef(ctx context.Context, providerRef string) (*models.Order, error)
	SetProviderRef(ctx context.Context, id uuid.UUID, providerRef string) error
	MarkFailed(ctx context.Context, id uuid.UUID) (bool, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paymentID, paymentMethod string, settledAt time.Time) (bool, error)
	List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByOrderCode(ctx context.Context, orderCode string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("order_code = ?", orderCode).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByProviderRef(ctx context.Context, providerRef string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("payment_provider_ref = ?", providerRef).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetProviderRef links the provider's order code to the local row. The ref
// is written at most once: only while the order is pending and unlinked.
func (r *repository) SetProviderRef(ctx context.Context, id uuid.UUID, providerRef string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ? AND payment_provider_ref IS NULL", id, enums.OrderStatusPending).
		Update("payment_provider_ref", providerRef)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusPending).
		Update("status", enums.OrderStatusPaymentFailed)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, paymentID, paymentMethod string, settledAt time.Time) (bool, error) {
	updates := map[string]any{
		"status":           enums.OrderStatusPaid,
		"payment_id":       paymentID,
		"payment_method":   paymentMethod,
		"transaction_date": settledAt,
	}
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Domain != nil {
		query = query.Where("domain_id = ?", *filter.Domain)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
