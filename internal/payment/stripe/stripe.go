package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"trustseal/internal/config"
	"trustseal/internal/payment"
)

// Gateway implements payment.Gateway on Stripe Checkout.
// Paid status is always read back from Stripe, never cached locally.
type Gateway struct {
	cfg config.PaymentConfig
}

// New configures the Stripe client for the account in cfg.
func New(cfg config.PaymentConfig) (*Gateway, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	stripeapi.Key = cfg.SecretKey
	return &Gateway{cfg: cfg}, nil
}

var _ payment.Gateway = (*Gateway)(nil)

// CreateSession opens a single-item Checkout session priced at the configured
// flat notarization fee.
func (g *Gateway) CreateSession(ctx context.Context, fileName string) (*payment.Session, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode: stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency: stripeapi.String(g.cfg.Currency),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripeapi.String("Document notarization: " + fileName),
					},
					UnitAmount: stripeapi.Int64(g.cfg.PriceCents),
				},
				Quantity: stripeapi.Int64(1),
			},
		},
		SuccessURL: stripeapi.String(g.cfg.SuccessURL),
		CancelURL:  stripeapi.String(g.cfg.CancelURL),
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return fromCheckoutSession(s), nil
}

// GetSession polls Stripe for the session's current payment status.
func (g *Gateway) GetSession(ctx context.Context, sessionID string) (*payment.Session, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripeapi.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripeapi.ErrorCodeResourceMissing {
			return nil, fmt.Errorf("%w: %s", payment.ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	return fromCheckoutSession(s), nil
}

// HandleWebhook verifies the event signature. Stripe itself is the source of
// truth for paid status, so the event only confirms what polling will see.
func (g *Gateway) HandleWebhook(payload []byte, signature string) (string, bool, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.cfg.WebhookSecret)
	if err != nil {
		return "", false, fmt.Errorf("verify webhook signature: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return "", false, nil
	}

	var s stripeapi.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return "", false, fmt.Errorf("decode webhook session: %w", err)
	}
	return s.ID, s.PaymentStatus == stripeapi.CheckoutSessionPaymentStatusPaid, nil
}

func fromCheckoutSession(s *stripeapi.CheckoutSession) *payment.Session {
	return &payment.Session{
		ID:       s.ID,
		URL:      s.URL,
		Amount:   s.AmountTotal,
		Currency: string(s.Currency),
		Status:   string(s.PaymentStatus),
	}
}
