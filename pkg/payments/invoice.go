package payments

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Invoice is the billing document issued when a payment settles.
type Invoice struct {
	PaymentID      uuid.UUID
	SubscriptionID uuid.UUID
	TenantID       uuid.UUID
	Amount         float64
	Currency       string
	IssuedAt       time.Time
}

// InvoiceIssuer delivers invoices to tenants. Implementations render and
// email, push to an accounting system, or just record for later export.
type InvoiceIssuer interface {
	Issue(ctx context.Context, invoice Invoice) error
}

type noopInvoiceIssuer struct{}

func (noopInvoiceIssuer) Issue(context.Context, Invoice) error { return nil }

// MemoryInvoiceIssuer collects issued invoices in memory, for tests and
// local development.
type MemoryInvoiceIssuer struct {
	mu       sync.Mutex
	invoices []Invoice
}

// NewMemoryInvoiceIssuer returns an empty in-memory issuer.
func NewMemoryInvoiceIssuer() *MemoryInvoiceIssuer {
	return &MemoryInvoiceIssuer{}
}

func (i *MemoryInvoiceIssuer) Issue(_ context.Context, invoice Invoice) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.invoices = append(i.invoices, invoice)
	return nil
}

// Invoices returns a copy of issued invoices in issue order.
func (i *MemoryInvoiceIssuer) Invoices() []Invoice {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]Invoice, len(i.invoices))
	copy(out, i.invoices)
	return out
}
