package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"

	"github.com/dmitrymomot/saascore/pkg/clock"
)

// PaddleConfig holds configuration for the Paddle billing gateway.
type PaddleConfig struct {
	APIKey        string `env:"PADDLE_API_KEY,required"`
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
	Environment   string `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
}

// PaddleGateway starts hosted checkouts for pending payments and parses
// Paddle webhooks back into settlement events.
type PaddleGateway struct {
	client   *paddle.SDK
	verifier *paddle.WebhookVerifier
	clock    clock.Clock
}

// PaddleOption configures a PaddleGateway.
type PaddleOption func(*PaddleGateway)

// WithPaddleClock overrides the gateway's time source.
func WithPaddleClock(c clock.Clock) PaddleOption {
	return func(g *PaddleGateway) {
		if c != nil {
			g.clock = c
		}
	}
}

// NewPaddleGateway creates a Paddle gateway from config.
func NewPaddleGateway(config PaddleConfig, opts ...PaddleOption) (*PaddleGateway, error) {
	if config.APIKey == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("paddle API key is required"))
	}
	if config.WebhookSecret == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("paddle webhook secret is required"))
	}

	var client *paddle.SDK
	var err error
	switch strings.ToLower(config.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(config.APIKey)
	case "production", "":
		client, err = paddle.New(config.APIKey)
	default:
		return nil, errors.Join(ErrInvalidConfig,
			fmt.Errorf("invalid paddle environment: %s", config.Environment))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create paddle client: %w", err)
	}

	gateway := &PaddleGateway{
		client:   client,
		verifier: paddle.NewWebhookVerifier(config.WebhookSecret),
		clock:    clock.System(),
	}
	for _, opt := range opts {
		opt(gateway)
	}
	return gateway, nil
}

// CheckoutLink is a hosted payment page for one pending payment.
type CheckoutLink struct {
	URL           string
	TransactionID string
	ExpiresAt     time.Time
}

// CreateCheckout opens a Paddle transaction for the payment against the
// given catalog price and returns the hosted checkout link. The payment ID
// travels in custom data so the webhook can settle the right record.
func (g *PaddleGateway) CreateCheckout(ctx context.Context, payment Payment, priceID, successURL string) (*CheckoutLink, error) {
	if priceID == "" {
		return nil, errors.Join(ErrInvalidConfig, errors.New("price ID is required"))
	}

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  priceID,
		Quantity: 1,
	})
	req := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"payment_id":      payment.ID.String(),
			"subscription_id": payment.SubscriptionID.String(),
			"tenant_id":       payment.TenantID.String(),
		},
	}
	if successURL != "" {
		req.Checkout = &paddle.TransactionCheckout{URL: paddle.PtrTo(successURL)}
	}

	transaction, err := g.client.TransactionsClient.CreateTransaction(ctx, req)
	if err != nil {
		return nil, errors.Join(ErrGatewayUnavailable,
			fmt.Errorf("create paddle transaction: %w", err))
	}
	if transaction.Checkout == nil || transaction.Checkout.URL == nil {
		return nil, errors.Join(ErrGatewayUnavailable,
			errors.New("no checkout URL returned from paddle"))
	}

	return &CheckoutLink{
		URL:           *transaction.Checkout.URL,
		TransactionID: transaction.ID,
		// Paddle checkout links typically expire in 24 hours.
		ExpiresAt: g.clock.Now().Add(24 * time.Hour),
	}, nil
}

// WebhookEvent is the settlement-relevant slice of a Paddle webhook.
type WebhookEvent struct {
	EventType     string
	TransactionID string
	PaymentID     string
	Status        string
	Raw           map[string]any
}

// Settles reports whether the event settles a payment, and as what status.
func (e *WebhookEvent) Settles() (Status, bool) {
	switch e.EventType {
	case "transaction.completed", "transaction.paid":
		return StatusPaid, true
	case "transaction.payment_failed", "transaction.canceled":
		return StatusFailed, true
	}
	return "", false
}

// ParseWebhook verifies the Paddle signature and extracts the settlement
// fields from the payload.
func (g *PaddleGateway) ParseWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request for verification: %w", err)
	}
	req.Header.Set("Paddle-Signature", signature)

	valid, err := g.verifier.Verify(req)
	if err != nil {
		return nil, errors.Join(ErrWebhookVerification, err)
	}
	if !valid {
		return nil, ErrWebhookVerification
	}

	var paddleEvent struct {
		EventType string         `json:"event_type"`
		Data      map[string]any `json:"data"`
	}
	if err := json.Unmarshal(payload, &paddleEvent); err != nil {
		return nil, errors.Join(ErrMalformedWebhookEvent, err)
	}

	event := &WebhookEvent{
		EventType: paddleEvent.EventType,
		Raw:       paddleEvent.Data,
	}
	if txnID, ok := paddleEvent.Data["id"].(string); ok {
		event.TransactionID = txnID
	}
	if status, ok := paddleEvent.Data["status"].(string); ok {
		event.Status = status
	}
	if customData, ok := paddleEvent.Data["custom_data"].(map[string]any); ok {
		if paymentID, ok := customData["payment_id"].(string); ok {
			event.PaymentID = paymentID
		}
	}
	return event, nil
}
