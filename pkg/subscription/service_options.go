package subscription

import (
	"log/slog"

	"github.com/dmitrymomot/saascore/pkg/clock"
)

// ServiceOption configures optional service collaborators.
type ServiceOption func(*service)

// WithClock replaces the wall clock, mainly for deterministic tests.
func WithClock(c clock.Clock) ServiceOption {
	return func(s *service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTenantSyncer propagates subscription state to the tenant record
// after every state-affecting transition.
func WithTenantSyncer(syncer TenantSyncer) ServiceOption {
	return func(s *service) {
		if syncer != nil {
			s.syncer = syncer
		}
	}
}

// WithPaymentRecorder records pending payments for paid creations and
// renewals.
func WithPaymentRecorder(recorder PaymentRecorder) ServiceOption {
	return func(s *service) {
		if recorder != nil {
			s.payments = recorder
		}
	}
}

// WithRenewalHandler replaces the default roll-forward renewal logic.
func WithRenewalHandler(handler RenewalHandler) ServiceOption {
	return func(s *service) {
		if handler != nil {
			s.renewals = handler
		}
	}
}

// WithHistoryStore records the per-subscription audit trail.
func WithHistoryStore(store HistoryStore) ServiceOption {
	return func(s *service) {
		if store != nil {
			s.history = store
		}
	}
}

// WithLogger sets the structured logger for best-effort failure reporting.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *service) {
		if log != nil {
			s.log = log
		}
	}
}
