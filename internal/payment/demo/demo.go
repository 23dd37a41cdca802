package demo

import (
	"context"
	"fmt"
	"sync"

	ledgerdemo "trustseal/internal/ledger/demo"
	"trustseal/internal/payment"
)

// SessionPrefix marks placeholder checkout session ids.
const SessionPrefix = "demo_session_"

// Gateway is the demo-mode payment.Gateway: sessions live in memory and a
// webhook delivery (no signature required) marks them paid, so the whole
// payment flow stays exercisable without a provider account.
type Gateway struct {
	mu       sync.RWMutex
	sessions map[string]*payment.Session

	amount   int64
	currency string
}

func NewGateway(amount int64, currency string) *Gateway {
	return &Gateway{
		sessions: make(map[string]*payment.Session),
		amount:   amount,
		currency: currency,
	}
}

var _ payment.Gateway = (*Gateway)(nil)

func (g *Gateway) CreateSession(_ context.Context, fileName string) (*payment.Session, error) {
	s := &payment.Session{
		ID:       SessionPrefix + ledgerdemo.Token(9),
		URL:      "/demo-checkout?file=" + fileName,
		Amount:   g.amount,
		Currency: g.currency,
		Status:   "unpaid",
		DemoMode: true,
	}

	g.mu.Lock()
	g.sessions[s.ID] = s
	g.mu.Unlock()

	return s, nil
}

func (g *Gateway) GetSession(_ context.Context, sessionID string) (*payment.Session, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", payment.ErrSessionNotFound, sessionID)
	}
	out := *s
	return &out, nil
}

// HandleWebhook treats the payload as the session id to complete. The
// signature is ignored; there is no provider to verify against in demo mode.
func (g *Gateway) HandleWebhook(payload []byte, _ string) (string, bool, error) {
	sessionID := string(payload)

	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.sessions[sessionID]
	if !ok {
		return "", false, fmt.Errorf("%w: %s", payment.ErrSessionNotFound, sessionID)
	}
	s.Status = payment.Paid
	return sessionID, true, nil
}
