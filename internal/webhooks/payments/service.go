package paymentwebhook

import (
	"context"
	"errors"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/verdantlabs/seedmarket-backend/internal/orders"
	"github.com/verdantlabs/seedmarket-backend/pkg/db/models"
	pkgerrors "github.com/verdantlabs/seedmarket-backend/pkg/errors"
	"github.com/verdantlabs/seedmarket-backend/pkg/logger"
	"github.com/verdantlabs/seedmarket-backend/pkg/metrics"
	"github.com/verdantlabs/seedmarket-backend/pkg/vivawallet"
)

// Verifier is the slice of the payment provider the reconciler needs: an
// independent server-to-server read of the transaction's true status.
type Verifier interface {
	VerifyTransaction(ctx context.Context, transactionID string) (*vivawallet.VerifyResult, error)
}

// Service reconciles provider payment notifications against local orders.
//
// Success notifications are never trusted: the transaction is re-verified
// against the provider before any row changes. An event the service decides
// it cannot act on is absorbed (nil return, so the transport acks it) and
// recorded in the fault queue; only storage faults propagate, which makes
// the provider redeliver.
type Service interface {
	HandleEvent(ctx context.Context, event *Event) error
}

type ServiceParams struct {
	Orders   orders.Repository
	Verifier Verifier
	Faults   FaultRecorder
	Logger   *logger.Logger
	Metrics  *metrics.PaymentMetrics
}

type service struct {
	orders   orders.Repository
	verifier Verifier
	faults   FaultRecorder
	logger   *logger.Logger
	metrics  *metrics.PaymentMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.Verifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "provider verifier required")
	}
	if params.Faults == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "fault recorder required")
	}
	return &service{
		orders:   params.Orders,
		verifier: params.Verifier,
		faults:   params.Faults,
		logger:   params.Logger,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) HandleEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event is required")
	}

	switch event.EventType {
	case EventPaymentSuccess:
		return s.handleSuccess(ctx, event)
	case EventPaymentFailed:
		return s.handleFailure(ctx, event)
	default:
		// unknown event types are acknowledged without state change
		if s.logger != nil {
			s.logger.Info(s.logger.WithField(ctx, "event", event.EventType), "webhook.ignored")
		}
		s.metrics.IncWebhookEvent(event.EventType, "ignored")
		return nil
	}
}

func (s *service) handleSuccess(ctx context.Context, event *Event) error {
	if event.Data.TransactionID == "" {
		s.metrics.IncWebhookEvent(event.EventType, "malformed")
		return s.recordFault(ctx, event, "success event without transaction id", nil)
	}

	started := time.Now()
	result, err := s.verifier.VerifyTransaction(ctx, event.Data.TransactionID)
	s.metrics.ObserveVerification(time.Since(started))
	if err != nil || !result.Verified {
		// the notification claimed success but the provider would not
		// confirm it, so the order stays untouched
		s.metrics.IncWebhookEvent(event.EventType, "unverified")
		return s.recordFault(ctx, event, "transaction did not verify as settled", err)
	}

	providerRef := result.OrderCode
	if providerRef == "" || providerRef == "0" {
		providerRef = event.Data.OrderCode
	}

	order, err := s.orders.FindByProviderRef(ctx, providerRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncWebhookEvent(event.EventType, "unmatched")
			return s.recordFault(ctx, event, "no order for provider ref "+providerRef, nil)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up order by provider ref")
	}

	method := result.PaymentMethod
	if method == "" {
		method = event.Data.PaymentMethod
	}

	updated, err := s.orders.MarkPaid(ctx, order.ID, event.Data.TransactionID, method, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
	}
	if !updated {
		// already terminal; redelivery or a race, either way nothing to do
		s.metrics.IncWebhookEvent(event.EventType, "duplicate")
		if s.logger != nil {
			s.logger.Info(s.logger.WithOrderCode(ctx, order.OrderCode), "webhook.already_terminal")
		}
		return nil
	}

	s.metrics.IncWebhookEvent(event.EventType, "paid")
	if s.logger != nil {
		s.logger.Info(s.logger.WithOrderCode(ctx, order.OrderCode), "webhook.order_paid")
	}
	return nil
}

func (s *service) handleFailure(ctx context.Context, event *Event) error {
	providerRef := event.Data.OrderCode
	if providerRef == "" {
		s.metrics.IncWebhookEvent(event.EventType, "malformed")
		return s.recordFault(ctx, event, "failure event without order code", nil)
	}

	order, err := s.orders.FindByProviderRef(ctx, providerRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncWebhookEvent(event.EventType, "unmatched")
			return s.recordFault(ctx, event, "no order for provider ref "+providerRef, nil)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up order by provider ref")
	}

	updated, err := s.orders.MarkFailed(ctx, order.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order failed")
	}
	if !updated {
		// a failure notice after settlement loses to the paid row
		s.metrics.IncWebhookEvent(event.EventType, "duplicate")
		if s.logger != nil {
			s.logger.Info(s.logger.WithOrderCode(ctx, order.OrderCode), "webhook.already_terminal")
		}
		return nil
	}

	s.metrics.IncWebhookEvent(event.EventType, "failed")
	if s.logger != nil {
		s.logger.Info(s.logger.WithOrderCode(ctx, order.OrderCode), "webhook.order_failed")
	}
	return nil
}

// recordFault persists the absorbed notification for manual follow-up and
// acknowledges it. Failing to write the fault row is the one case where an
// absorbed event turns back into an error: without the row there is no
// trace, so the provider must redeliver.
func (s *service) recordFault(ctx context.Context, event *Event, reason string, cause error) error {
	fault := &models.WebhookFault{
		EventType: event.EventType,
		Reason:    reason,
		Payload:   event.Raw,
	}
	if event.Data.TransactionID != "" {
		fault.TransactionID = &event.Data.TransactionID
	}
	if event.Data.OrderCode != "" {
		fault.ProviderOrderCode = &event.Data.OrderCode
	}

	if err := s.faults.Record(ctx, fault); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal,
			multierr.Append(cause, err),
			"record webhook fault")
	}

	if s.logger != nil {
		s.logger.Error(s.logger.WithField(ctx, "event", event.EventType), "webhook.fault_recorded",
			pkgerrors.New(pkgerrors.CodeStateConflict, reason))
	}
	return nil
}
