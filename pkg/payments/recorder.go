package payments

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/saascore/pkg/clock"
	"github.com/dmitrymomot/saascore/pkg/proration"
	"github.com/dmitrymomot/saascore/pkg/subscription"
)

// MemoryRecorder keeps payments in memory and implements
// subscription.PaymentRecorder. Settlement issues an invoice through the
// configured issuer.
type MemoryRecorder struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*Payment
	clock    clock.Clock
	issuer   InvoiceIssuer
}

// RecorderOption configures a MemoryRecorder.
type RecorderOption func(*MemoryRecorder)

// WithClock replaces the wall clock, mainly for deterministic tests.
func WithClock(c clock.Clock) RecorderOption {
	return func(r *MemoryRecorder) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithInvoiceIssuer sets where settled payments send their invoices.
func WithInvoiceIssuer(issuer InvoiceIssuer) RecorderOption {
	return func(r *MemoryRecorder) {
		if issuer != nil {
			r.issuer = issuer
		}
	}
}

// NewMemoryRecorder returns an in-memory payment recorder.
func NewMemoryRecorder(opts ...RecorderOption) *MemoryRecorder {
	r := &MemoryRecorder{
		payments: make(map[uuid.UUID]*Payment),
		clock:    clock.System(),
		issuer:   noopInvoiceIssuer{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordPending creates a pending payment for the stub. Rounding to 2
// decimals happens here, at the persistence boundary.
func (r *MemoryRecorder) RecordPending(_ context.Context, stub subscription.PaymentStub) error {
	now := r.clock.Now()
	payment := &Payment{
		ID:             uuid.New(),
		SubscriptionID: stub.SubscriptionID,
		TenantID:       stub.TenantID,
		Amount:         proration.Round2(stub.Amount),
		Currency:       stub.Currency,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[payment.ID] = payment
	return nil
}

// MarkPaid settles a pending payment and issues its invoice. Settling a
// settled payment fails with ErrAlreadySettled so webhook retries do not
// double-invoice.
func (r *MemoryRecorder) MarkPaid(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	payment, err := r.settle(id, StatusPaid, gatewayOrderID)
	if err != nil {
		return err
	}
	if err := r.issuer.Issue(ctx, Invoice{
		PaymentID:      payment.ID,
		SubscriptionID: payment.SubscriptionID,
		TenantID:       payment.TenantID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		IssuedAt:       *payment.PaidAt,
	}); err != nil {
		return fmt.Errorf("issue invoice for payment %s: %w", payment.ID, err)
	}
	return nil
}

// MarkFailed records a failed collection attempt.
func (r *MemoryRecorder) MarkFailed(_ context.Context, id uuid.UUID, gatewayOrderID string) error {
	_, err := r.settle(id, StatusFailed, gatewayOrderID)
	return err
}

func (r *MemoryRecorder) settle(id uuid.UUID, status Status, gatewayOrderID string) (Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	payment, ok := r.payments[id]
	if !ok {
		return Payment{}, ErrPaymentNotFound
	}
	if payment.Status != StatusPending {
		return Payment{}, errors.Join(ErrAlreadySettled,
			fmt.Errorf("payment %s is %s", id, payment.Status))
	}

	now := r.clock.Now()
	payment.Status = status
	payment.GatewayOrderID = gatewayOrderID
	payment.UpdatedAt = now
	if status == StatusPaid {
		payment.PaidAt = &now
	}
	return *payment, nil
}

// ListByTenant returns a copy of the tenant's payments in no particular
// order.
func (r *MemoryRecorder) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Payment
	for _, payment := range r.payments {
		if payment.TenantID == tenantID {
			result = append(result, *payment)
		}
	}
	return result, nil
}

// Pending returns all payments still awaiting settlement.
func (r *MemoryRecorder) Pending(_ context.Context) ([]Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Payment
	for _, payment := range r.payments {
		if payment.Status == StatusPending {
			result = append(result, *payment)
		}
	}
	return result, nil
}
