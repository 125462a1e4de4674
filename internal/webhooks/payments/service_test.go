package paymentwebhook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verdantlabs/seedmarket-backend/internal/orders"
	"github.com/verdantlabs/seedmarket-backend/pkg/db/models"
	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
	pkgerrors "github.com/verdantlabs/seedmarket-backend/pkg/errors"
	"github.com/verdantlabs/seedmarket-backend/pkg/pagination"
	"github.com/verdantlabs/seedmarket-backend/pkg/vivawallet"
)

type fakeOrdersRepo struct {
	orders map[uuid.UUID]*models.Order

	findErr     error
	markPaidErr error

	calls []string
}

func newFakeOrdersRepo() *fakeOrdersRepo {
	return &fakeOrdersRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (f *fakeOrdersRepo) add(status enums.OrderStatus, providerRef string) *models.Order {
	order := &models.Order{
		ID:        uuid.New(),
		OrderCode: "SM-1700000000000-AB12CD",
		Amount:    decimal.RequireFromString("49.99"),
		Domain:    enums.DomainNL,
		Status:    status,
	}
	if providerRef != "" {
		order.PaymentProviderRef = &providerRef
	}
	f.orders[order.ID] = order
	return order
}

func (f *fakeOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return f }

func (f *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	return errors.New("not used")
}

func (f *fakeOrdersRepo) FindByOrderCode(ctx context.Context, orderCode string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrdersRepo) FindByProviderRef(ctx context.Context, providerRef string) (*models.Order, error) {
	f.calls = append(f.calls, "find")
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, order := range f.orders {
		if order.PaymentProviderRef != nil && *order.PaymentProviderRef == providerRef {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrdersRepo) SetProviderRef(ctx context.Context, id uuid.UUID, providerRef string) error {
	return errors.New("not used")
}

func (f *fakeOrdersRepo) MarkFailed(ctx context.Context, id uuid.UUID) (bool, error) {
	f.calls = append(f.calls, "mark_failed")
	order, ok := f.orders[id]
	if !ok || order.Status != enums.OrderStatusPending {
		return false, nil
	}
	order.Status = enums.OrderStatusPaymentFailed
	return true, nil
}

func (f *fakeOrdersRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentID, paymentMethod string, settledAt time.Time) (bool, error) {
	f.calls = append(f.calls, "mark_paid")
	if f.markPaidErr != nil {
		return false, f.markPaidErr
	}
	order, ok := f.orders[id]
	if !ok || order.Status != enums.OrderStatusPending {
		return false, nil
	}
	order.Status = enums.OrderStatusPaid
	order.PaymentID = &paymentID
	order.PaymentMethod = &paymentMethod
	return true, nil
}

func (f *fakeOrdersRepo) List(ctx context.Context, filter orders.ListFilter, limit int, cursor *pagination.Cursor) ([]models.Order, error) {
	return nil, nil
}

type fakeVerifier struct {
	result *vivawallet.VerifyResult
	err    error
	calls  int
}

func (f *fakeVerifier) VerifyTransaction(ctx context.Context, transactionID string) (*vivawallet.VerifyResult, error) {
	f.calls++
	if f.err != nil {
		return &vivawallet.VerifyResult{}, f.err
	}
	return f.result, nil
}

type fakeFaults struct {
	recorded []*models.WebhookFault
	err      error
}

func (f *fakeFaults) Record(ctx context.Context, fault *models.WebhookFault) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, fault)
	return nil
}

func newWebhookService(t *testing.T, repo orders.Repository, verifier Verifier, faults FaultRecorder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Orders: repo, Verifier: verifier, Faults: faults})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func successEvent() *Event {
	return &Event{
		EventType: EventPaymentSuccess,
		Data: EventData{
			TransactionID: "txn-123",
			OrderCode:     "9004711",
			PaymentMethod: "ideal",
		},
	}
}

func TestHandleSuccessVerifiedMarksPaid(t *testing.T) {
	repo := newFakeOrdersRepo()
	order := repo.add(enums.OrderStatusPending, "9004711")
	verifier := &fakeVerifier{result: &vivawallet.VerifyResult{
		Verified:      true,
		StatusID:      "F",
		OrderCode:     "9004711",
		PaymentMethod: "ideal",
	}}
	faults := &fakeFaults{}
	svc := newWebhookService(t, repo, verifier, faults)

	if err := svc.HandleEvent(context.Background(), successEvent()); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if verifier.calls != 1 {
		t.Fatalf("expected one verification call, got %d", verifier.calls)
	}
	if order.Status != enums.OrderStatusPaid {
		t.Fatalf("expected paid, got %s", order.Status)
	}
	if order.PaymentID == nil || *order.PaymentID != "txn-123" {
		t.Fatalf("transaction id not recorded")
	}
	if len(faults.recorded) != 0 {
		t.Fatalf("no fault expected on clean settlement")
	}
}

func TestHandleSuccessUnverifiedLeavesOrderUntouched(t *testing.T) {
	repo := newFakeOrdersRepo()
	order := repo.add(enums.OrderStatusPending, "9004711")
	verifier := &fakeVerifier{result: &vivawallet.VerifyResult{Verified: false, StatusID: "E"}}
	faults := &fakeFaults{}
	svc := newWebhookService(t, repo, verifier, faults)

	if err := svc.HandleEvent(context.Background(), successEvent()); err != nil {
		t.Fatalf("unverified success must be absorbed, got %v", err)
	}

	if order.Status != enums.OrderStatusPending {
		t.Fatalf("order must stay pending, got %s", order.Status)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("no repo access expected before verification passes, got %v", repo.calls)
	}
	if len(faults.recorded) != 1 {
		t.Fatalf("expected one fault row, got %d", len(faults.recorded))
	}
}

func TestHandleSuccessUnmatchedRefRecordsFault(t *testing.T) {
	repo := newFakeOrdersRepo()
	verifier := &fakeVerifier{result: &vivawallet.VerifyResult{Verified: true, StatusID: "F", OrderCode: "404"}}
	faults := &fakeFaults{}
	svc := newWebhookService(t, repo, verifier, faults)

	if err := svc.HandleEvent(context.Background(), successEvent()); err != nil {
		t.Fatalf("unmatched ref must be absorbed, got %v", err)
	}
	if len(faults.recorded) != 1 {
		t.Fatalf("expected fault row for unmatched ref")
	}
	if faults.recorded[0].TransactionID == nil || *faults.recorded[0].TransactionID != "txn-123" {
		t.Fatalf("fault should carry the transaction id")
	}
}

func TestHandleSuccessDuplicateDeliveryIsNoop(t *testing.T) {
	repo := newFakeOrdersRepo()
	order := repo.add(enums.OrderStatusPaid, "9004711")
	verifier := &fakeVerifier{result: &vivawallet.VerifyResult{Verified: true, StatusID: "F", OrderCode: "9004711"}}
	faults := &fakeFaults{}
	svc := newWebhookService(t, repo, verifier, faults)

	if err := svc.HandleEvent(context.Background(), successEvent()); err != nil {
		t.Fatalf("duplicate delivery must ack, got %v", err)
	}
	if order.Status != enums.OrderStatusPaid {
		t.Fatalf("status must be unchanged")
	}
	if len(faults.recorded) != 0 {
		t.Fatalf("duplicates are not faults")
	}
}

func TestHandleSuccessStorageFaultPropagates(t *testing.T) {
	repo := newFakeOrdersRepo()
	repo.add(enums.OrderStatusPending, "9004711")
	repo.markPaidErr = errors.New("db down")
	verifier := &fakeVerifier{result: &vivawallet.VerifyResult{Verified: true, StatusID: "F", OrderCode: "9004711"}}
	svc := newWebhookService(t, repo, verifier, &fakeFaults{})

	err := svc.HandleEvent(context.Background(), successEvent())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error so the provider redelivers, got %v", err)
	}
}

func TestHandleSuccessFaultWriteFailurePropagates(t *testing.T) {
	repo := newFakeOrdersRepo()
	verifier := &fakeVerifier{err: errors.New("timeout")}
	faults := &fakeFaults{err: errors.New("db down")}
	svc := newWebhookService(t, repo, verifier, faults)

	err := svc.HandleEvent(context.Background(), successEvent())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("an absorbed event without a fault row must error, got %v", err)
	}
}

func TestHandleFailureTrustedWithoutVerification(t *testing.T) {
	repo := newFakeOrdersRepo()
	order := repo.add(enums.OrderStatusPending, "9004711")
	verifier := &fakeVerifier{}
	svc := newWebhookService(t, repo, verifier, &fakeFaults{})

	event := &Event{
		EventType: EventPaymentFailed,
		Data:      EventData{OrderCode: "9004711"},
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if verifier.calls != 0 {
		t.Fatalf("failure events must not be re-verified")
	}
	if order.Status != enums.OrderStatusPaymentFailed {
		t.Fatalf("expected payment_failed, got %s", order.Status)
	}
}

func TestHandleFailureAfterSettlementLoses(t *testing.T) {
	repo := newFakeOrdersRepo()
	order := repo.add(enums.OrderStatusPaid, "9004711")
	svc := newWebhookService(t, repo, &fakeVerifier{}, &fakeFaults{})

	event := &Event{
		EventType: EventPaymentFailed,
		Data:      EventData{OrderCode: "9004711"},
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("late failure must ack, got %v", err)
	}
	if order.Status != enums.OrderStatusPaid {
		t.Fatalf("paid order must not be clobbered, got %s", order.Status)
	}
}

func TestHandleUnknownEventIsAcknowledgedNoop(t *testing.T) {
	repo := newFakeOrdersRepo()
	verifier := &fakeVerifier{}
	faults := &fakeFaults{}
	svc := newWebhookService(t, repo, verifier, faults)

	event := &Event{EventType: "TRANSACTION_REVERSAL_CREATED"}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown events must ack, got %v", err)
	}
	if verifier.calls != 0 || len(repo.calls) != 0 || len(faults.recorded) != 0 {
		t.Fatalf("unknown events must not touch anything")
	}
}
