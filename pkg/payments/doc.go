// Package payments records subscription charges and integrates with the
// Paddle billing gateway.
//
// The lifecycle manager records a pending payment when a paid subscription
// is created or renewed; the gateway's webhook settles it to paid or
// failed. Settling to paid issues an invoice through an InvoiceIssuer,
// exactly once per payment, so webhook retries are safe.
//
// Amounts are rounded to 2 decimals when the payment record is created,
// keeping the proration math upstream unrounded and reproducible.
package payments
