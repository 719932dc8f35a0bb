package payments

import (
	"time"

	"github.com/google/uuid"
)

// Status is the collection state of a payment.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// Payment is one charge attempt for a subscription cycle. Created pending
// by the lifecycle manager, settled by the gateway webhook.
type Payment struct {
	ID             uuid.UUID
	SubscriptionID uuid.UUID
	TenantID       uuid.UUID

	// Amount is rounded to 2 decimals at creation; proration math upstream
	// stays unrounded so it is exactly reproducible.
	Amount   float64
	Currency string

	Status Status

	// GatewayOrderID links the payment to the external gateway's
	// transaction once checkout starts; empty until then.
	GatewayOrderID string

	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
}
