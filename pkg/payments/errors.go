package payments

import "errors"

// Domain errors for payment recording and gateway integration.
var (
	ErrPaymentNotFound       = errors.New("payments.not_found")
	ErrAlreadySettled        = errors.New("payments.already_settled")
	ErrInvalidConfig         = errors.New("payments.invalid_config")
	ErrGatewayUnavailable    = errors.New("payments.gateway_unavailable")
	ErrWebhookVerification   = errors.New("payments.webhook_verification_failed")
	ErrMalformedWebhookEvent = errors.New("payments.malformed_webhook_event")
)
