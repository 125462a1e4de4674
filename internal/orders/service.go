package orders

import (
	"context"
	"errors"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/verdantlabs/seedmarket-backend/pkg/db"
	"github.com/verdantlabs/seedmarket-backend/pkg/db/models"
	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
	pkgerrors "github.com/verdantlabs/seedmarket-backend/pkg/errors"
	"github.com/verdantlabs/seedmarket-backend/pkg/logger"
	"github.com/verdantlabs/seedmarket-backend/pkg/metrics"
	"github.com/verdantlabs/seedmarket-backend/pkg/pagination"
	"github.com/verdantlabs/seedmarket-backend/pkg/vivawallet"
)

// codeGenAttempts bounds order-code regeneration on a unique conflict.
const codeGenAttempts = 3

// ProviderClient is the slice of the payment provider the intake flow needs.
type ProviderClient interface {
	CreatePaymentOrder(ctx context.Context, params vivawallet.CreateOrderParams) (*vivawallet.CreateOrderResult, error)
}

// Service turns checkout submissions into durable pending orders linked to a
// hosted payment session.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	GetByOrderCode(ctx context.Context, orderCode string) (*models.Order, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error)
}

type ServiceParams struct {
	Repo     Repository
	Provider ProviderClient
	Logger   *logger.Logger
	Metrics  *metrics.PaymentMetrics
}

type service struct {
	repo     Repository
	provider ProviderClient
	logger   *logger.Logger
	metrics  *metrics.PaymentMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.Provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "provider client required")
	}
	return &service{
		repo:     params.Repo,
		provider: params.Provider,
		logger:   params.Logger,
		metrics:  params.Metrics,
	}, nil
}

var langByDomain = map[enums.Domain]string{
	enums.DomainNL: "nl-NL",
	enums.DomainDE: "de-DE",
	enums.DomainBE: "nl-BE",
	enums.DomainFR: "fr-FR",
	enums.DomainEN: "en-GB",
}

// CreateOrder persists a pending order, requests a hosted checkout session,
// and links the provider's order code to the local row. A provider failure
// is compensated by transitioning the order to payment_failed before the
// error is reported.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	order, err := s.persistPending(ctx, input)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		ctx = s.logger.WithOrderCode(ctx, order.OrderCode)
	}
	s.metrics.IncOrderCreated(string(order.Domain))

	params := vivawallet.CreateOrderParams{
		Amount:        input.Amount,
		CustomerEmail: input.CustomerEmail,
		CustomerName:  input.CustomerName,
		MerchantRef:   order.OrderCode,
		RequestLang:   langByDomain[input.Domain],
	}
	if input.PreferredMethod != nil {
		params.PreferredMethod = string(*input.PreferredMethod)
	}

	session, err := s.provider.CreatePaymentOrder(ctx, params)
	if err != nil {
		return nil, s.compensateSessionFailure(ctx, order, err)
	}

	if err := s.repo.SetProviderRef(ctx, order.ID, session.ProviderOrderCode); err != nil {
		// the session exists remotely but the link write failed; the order
		// stays pending and the provider session expires on its own
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link provider session")
	}

	if s.logger != nil {
		s.logger.Info(s.logger.WithField(ctx, "provider_order_code", session.ProviderOrderCode), "order.session_created")
	}

	return &CreateOrderResult{
		OrderCode:   order.OrderCode,
		CheckoutURL: session.CheckoutURL,
	}, nil
}

func (s *service) validateInput(input CreateOrderInput) error {
	if !input.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order items are required")
	}
	if input.CustomerEmail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if !input.Domain.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "storefront domain is required")
	}
	if input.PreferredMethod != nil && !input.PreferredMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if !input.Amount.Equal(input.Items.Total()) {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount does not match order items").
			WithDetails(map[string]any{"items_total": input.Items.Total().String()})
	}
	return nil
}

func (s *service) persistPending(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	var lastErr error
	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		order := &models.Order{
			OrderCode:     NewOrderCode(time.Now()),
			CustomerEmail: input.CustomerEmail,
			CustomerName:  input.CustomerName,
			Amount:        input.Amount,
			Domain:        input.Domain,
			Status:        enums.OrderStatusPending,
			Items:         input.Items,
		}
		err := s.repo.Create(ctx, order)
		if err == nil {
			return order, nil
		}
		lastErr = err
		if !db.IsUniqueViolation(err, "orders_order_code_key") {
			break
		}
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, lastErr, "persist pending order")
}

func (s *service) compensateSessionFailure(ctx context.Context, order *models.Order, sessionErr error) error {
	s.metrics.IncSessionFailure()
	if s.logger != nil {
		s.logger.Error(ctx, "order.session_failed", sessionErr)
	}

	if _, failErr := s.repo.MarkFailed(ctx, order.ID); failErr != nil {
		// the order is stuck pending; callers must inspect its state before
		// retrying, so this surfaces as an infrastructure fault rather than
		// a provider one
		return pkgerrors.Wrap(pkgerrors.CodeInternal,
			multierr.Append(sessionErr, failErr),
			"compensating status update failed")
	}

	if typed := pkgerrors.As(sessionErr); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, sessionErr, "create payment session")
}

func (s *service) GetByOrderCode(ctx context.Context, orderCode string) (*models.Order, error) {
	order, err := s.repo.FindByOrderCode(ctx, orderCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, filter, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}
