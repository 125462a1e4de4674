package paymentwebhook

import "github.com/verdantlabs/seedmarket-backend/pkg/types"

// Event names delivered by the payment provider.
const (
	EventPaymentSuccess = "TRANSACTION_PAYMENT_SUCCESS"
	EventPaymentFailed  = "TRANSACTION_FAILED"
)

// Event is one provider notification. Data keeps the decoded fields the
// reconciler acts on; Raw preserves the full payload for fault records.
// Unknown event types are acknowledged without state change.
type Event struct {
	EventType string    `json:"event"`
	Data      EventData `json:"data"`

	Raw types.JSONMap `json:"-"`
}

type EventData struct {
	TransactionID string `json:"transactionId"`
	OrderCode     string `json:"orderCode"`
	PaymentMethod string `json:"paymentMethod"`
}

// DedupeKey identifies a delivery for idempotency purposes.
func (e *Event) DedupeKey() string {
	if e == nil {
		return ""
	}
	id := e.Data.TransactionID
	if id == "" {
		id = e.Data.OrderCode
	}
	if id == "" {
		return ""
	}
	return e.EventType + ":" + id
}
