package payment

import (
	"context"
	"errors"
)

// Package payment abstracts the checkout provider gating notarization.
// Session status polling via GetSession is the single source of truth for
// "paid"; the webhook only verifies provenance (and, in demo mode, completes
// sessions so the flow is exercisable without a provider).

// ErrSessionNotFound indicates the provider does not know the session id.
var ErrSessionNotFound = errors.New("payment session not found")

// Paid is the provider-neutral status value for a completed payment.
const Paid = "paid"

// Session describes a checkout session as far as the workflows care:
// where to send the user and whether they have paid.
type Session struct {
	ID       string `json:"session_id"`
	URL      string `json:"redirect_url,omitempty"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"payment_status"`
	DemoMode bool   `json:"demo_mode,omitempty"`
}

// Paid reports whether the session has completed payment.
func (s *Session) Paid() bool {
	return s != nil && s.Status == Paid
}

// Gateway creates checkout sessions and reports their status.
type Gateway interface {
	// CreateSession opens a checkout session for notarizing the named file.
	CreateSession(ctx context.Context, fileName string) (*Session, error)

	// GetSession returns the current session state, fetching the paid status
	// from the provider. Fails with ErrSessionNotFound for unknown ids.
	GetSession(ctx context.Context, sessionID string) (*Session, error)

	// HandleWebhook verifies a provider event delivery and returns the
	// affected session id and whether the event marks it paid.
	HandleWebhook(payload []byte, signature string) (sessionID string, paid bool, err error)
}
