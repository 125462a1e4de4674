package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdantlabs/seedmarket-backend/api/middleware"
	"github.com/verdantlabs/seedmarket-backend/api/responses"
	"github.com/verdantlabs/seedmarket-backend/api/validators"
	"github.com/verdantlabs/seedmarket-backend/internal/products"
	pkgerrors "github.com/verdantlabs/seedmarket-backend/pkg/errors"
	"github.com/verdantlabs/seedmarket-backend/pkg/logger"
)

// ProductsList returns the catalog page for the request's storefront domain.
func ProductsList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		views, next, err := svc.List(ctx, middleware.DomainFromContext(ctx), params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"products":    views,
			"next_cursor": next,
		})
	}
}

func ProductDetail(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		view, err := svc.GetBySlug(ctx, chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
