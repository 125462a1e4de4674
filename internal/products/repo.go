package products

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/verdantlabs/seedmarket-backend/pkg/db/models"
	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
	"github.com/verdantlabs/seedmarket-backend/pkg/pagination"
)

// Repository is the read-only persistence surface for the catalog.
type Repository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, domain enums.Domain, limit int, cursor *pagination.Cursor) ([]models.Product, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("slug = ? AND active = ?", slug, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, domain enums.Domain, limit int, cursor *pagination.Cursor) ([]models.Product, error) {
	// jsonb containment keeps the domain filter index-friendly; the `?`
	// operator would collide with the driver's placeholder syntax
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("active = ?", true).
		Where("domains @> ?", fmt.Sprintf(`["%s"]`, domain))
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var products []models.Product
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
