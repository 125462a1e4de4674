package paymentwebhook

import (
	"context"
	"testing"
	"time"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	return f.data[key], nil
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = "1"
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "sm:idempotency:" + scope + ":" + id
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestGuardSuppressesDuplicates(t *testing.T) {
	guard, err := NewIdempotencyGuard(newFakeStore(), time.Hour, "payment-webhook")
	if err != nil {
		t.Fatalf("NewIdempotencyGuard: %v", err)
	}
	ctx := context.Background()

	dup, err := guard.CheckAndMark(ctx, "evt-1")
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if dup {
		t.Fatalf("first delivery must not be a duplicate")
	}

	dup, err = guard.CheckAndMark(ctx, "evt-1")
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !dup {
		t.Fatalf("second delivery must be suppressed")
	}

	if err := guard.Delete(ctx, "evt-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	dup, err = guard.CheckAndMark(ctx, "evt-1")
	if err != nil {
		t.Fatalf("third check: %v", err)
	}
	if dup {
		t.Fatalf("delete must allow redelivery to process")
	}
}

func TestGuardConstructorValidation(t *testing.T) {
	if _, err := NewIdempotencyGuard(nil, time.Hour, "scope"); err == nil {
		t.Fatalf("expected error for nil store")
	}
	if _, err := NewIdempotencyGuard(newFakeStore(), time.Hour, ""); err == nil {
		t.Fatalf("expected error for empty scope")
	}
}

func TestEventDedupeKey(t *testing.T) {
	event := &Event{EventType: EventPaymentSuccess, Data: EventData{TransactionID: "txn-1"}}
	if got := event.DedupeKey(); got != EventPaymentSuccess+":txn-1" {
		t.Fatalf("unexpected key %q", got)
	}

	event = &Event{EventType: EventPaymentFailed, Data: EventData{OrderCode: "9001"}}
	if got := event.DedupeKey(); got != EventPaymentFailed+":9001" {
		t.Fatalf("expected order code fallback, got %q", got)
	}

	event = &Event{EventType: EventPaymentFailed}
	if got := event.DedupeKey(); got != "" {
		t.Fatalf("expected empty key without identifiers, got %q", got)
	}
}
