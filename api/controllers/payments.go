package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/verdantlabs/seedmarket-backend/api/middleware"
	"github.com/verdantlabs/seedmarket-backend/api/responses"
	"github.com/verdantlabs/seedmarket-backend/api/validators"
	"github.com/verdantlabs/seedmarket-backend/internal/orders"
	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
	pkgerrors "github.com/verdantlabs/seedmarket-backend/pkg/errors"
	"github.com/verdantlabs/seedmarket-backend/pkg/logger"
	"github.com/verdantlabs/seedmarket-backend/pkg/types"
	"github.com/verdantlabs/seedmarket-backend/pkg/vivawallet"
)

type createOrderRequest struct {
	Amount        decimal.Decimal  `json:"amount" validate:"required"`
	Items         []types.LineItem `json:"items" validate:"required,min=1,dive"`
	CustomerEmail string           `json:"customer_email" validate:"required,email"`
	CustomerName  string           `json:"customer_name" validate:"required"`
	PaymentMethod string           `json:"payment_method,omitempty"`
}

type createOrderResponse struct {
	OrderCode   string `json:"order_code"`
	CheckoutURL string `json:"checkout_url"`
}

// PaymentsCreate accepts a checkout submission and returns the order code
// plus the hosted checkout URL to redirect the customer to.
func PaymentsCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := orders.CreateOrderInput{
			Amount:        req.Amount,
			Items:         req.Items,
			CustomerEmail: validators.SanitizeString(req.CustomerEmail, 254),
			CustomerName:  validators.SanitizeString(req.CustomerName, 200),
			Domain:        middleware.DomainFromContext(ctx),
		}
		if req.PaymentMethod != "" {
			method, err := enums.ParsePaymentMethod(req.PaymentMethod)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
				return
			}
			input.PreferredMethod = &method
		}

		result, err := svc.CreateOrder(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createOrderResponse{
			OrderCode:   result.OrderCode,
			CheckoutURL: result.CheckoutURL,
		})
	}
}

// PaymentMethods returns the payment method menu for the request's
// storefront domain.
func PaymentMethods(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		domain := middleware.DomainFromContext(r.Context())
		responses.WriteSuccess(w, map[string]any{
			"domain":  domain,
			"methods": vivawallet.MethodsForDomain(domain),
		})
	}
}
