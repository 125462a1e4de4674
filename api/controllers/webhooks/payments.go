package webhooks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/verdantlabs/seedmarket-backend/api/responses"
	paymentwebhook "github.com/verdantlabs/seedmarket-backend/internal/webhooks/payments"
	pkgerrors "github.com/verdantlabs/seedmarket-backend/pkg/errors"
	"github.com/verdantlabs/seedmarket-backend/pkg/logger"
	"github.com/verdantlabs/seedmarket-backend/pkg/types"
)

type PaymentWebhookService interface {
	HandleEvent(ctx context.Context, event *paymentwebhook.Event) error
}

type paymentWebhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// PaymentWebhook receives provider payment notifications. The contract is to
// acknowledge everything the service decided it cannot act on; only genuine
// internal faults return 5xx so the provider redelivers.
func PaymentWebhook(svc PaymentWebhookService, guard paymentWebhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook service unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		// decoding stays lenient so new provider fields never bounce a
		// delivery; a body that is not JSON at all is acked as unprocessable
		var event paymentwebhook.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "webhook.undecodable")
			}
			responses.WriteSuccess(w, nil)
			return
		}

		var raw types.JSONMap
		if err := json.Unmarshal(payload, &raw); err == nil {
			event.Raw = raw
		}

		eventID := event.DedupeKey()
		if guard != nil && eventID != "" {
			alreadyProcessed, err := guard.CheckAndMark(ctx, eventID)
			if err != nil {
				// the guard is an optimization; a redis outage must not
				// block reconciliation
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "webhook.guard_unavailable")
				}
			} else if alreadyProcessed {
				responses.WriteSuccess(w, nil)
				return
			}
		}

		if err := svc.HandleEvent(ctx, &event); err != nil {
			if guard != nil && eventID != "" {
				_ = guard.Delete(ctx, eventID)
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}
