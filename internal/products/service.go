package products

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
	pkgerrors "github.com/verdantlabs/seedmarket-backend/pkg/errors"
	"github.com/verdantlabs/seedmarket-backend/pkg/pagination"
)

// Service is the storefront catalog read path.
type Service interface {
	GetBySlug(ctx context.Context, slug string) (*ProductView, error)
	List(ctx context.Context, domain enums.Domain, params pagination.Params) ([]ProductView, string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "products repo required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductView, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	view := viewOf(*product)
	return &view, nil
}

func (s *service) List(ctx context.Context, domain enums.Domain, params pagination.Params) ([]ProductView, string, error) {
	if !domain.IsValid() {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "storefront domain is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, domain, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	views := make([]ProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, viewOf(row))
	}
	return views, next, nil
}
