package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/verdantlabs/seedmarket-backend/api/responses"
	"github.com/verdantlabs/seedmarket-backend/api/validators"
	"github.com/verdantlabs/seedmarket-backend/internal/orders"
	"github.com/verdantlabs/seedmarket-backend/pkg/db/models"
	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
	pkgerrors "github.com/verdantlabs/seedmarket-backend/pkg/errors"
	"github.com/verdantlabs/seedmarket-backend/pkg/logger"
	"github.com/verdantlabs/seedmarket-backend/pkg/types"
)

type adminOrderView struct {
	OrderCode          string            `json:"order_code"`
	Status             enums.OrderStatus `json:"status"`
	Domain             enums.Domain      `json:"domain"`
	Amount             decimal.Decimal   `json:"amount"`
	CustomerEmail      string            `json:"customer_email"`
	CustomerName       string            `json:"customer_name"`
	Items              types.LineItems   `json:"items"`
	PaymentProviderRef *string           `json:"payment_provider_ref,omitempty"`
	PaymentID          *string           `json:"payment_id,omitempty"`
	PaymentMethod      *string           `json:"payment_method,omitempty"`
	TransactionDate    *time.Time        `json:"transaction_date,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

func adminViewOf(order models.Order) adminOrderView {
	return adminOrderView{
		OrderCode:          order.OrderCode,
		Status:             order.Status,
		Domain:             order.Domain,
		Amount:             order.Amount,
		CustomerEmail:      order.CustomerEmail,
		CustomerName:       order.CustomerName,
		Items:              order.Items,
		PaymentProviderRef: order.PaymentProviderRef,
		PaymentID:          order.PaymentID,
		PaymentMethod:      order.PaymentMethod,
		TransactionDate:    order.TransactionDate,
		CreatedAt:          order.CreatedAt,
	}
}

// AdminOrdersList is the back-office order listing with status and domain
// filters. Read-only: there is no mutation surface for orders.
func AdminOrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var filter orders.ListFilter
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order status"))
				return
			}
			filter.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("domain")); raw != "" {
			domain, err := enums.ParseDomain(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown storefront domain"))
				return
			}
			filter.Domain = &domain
		}

		rows, next, err := svc.List(ctx, filter, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		views := make([]adminOrderView, 0, len(rows))
		for _, row := range rows {
			views = append(views, adminViewOf(row))
		}

		responses.WriteSuccess(w, map[string]any{
			"orders":      views,
			"next_cursor": next,
		})
	}
}

func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		order, err := svc.GetByOrderCode(ctx, chi.URLParam(r, "orderCode"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, adminViewOf(*order))
	}
}
