package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"

	"campusevents/internal/domain"
)

// Config holds configuration for the Stripe checkout provider.
type Config struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
}

type stripeProvider struct {
	successURL string
	cancelURL  string
}

// NewStripeProvider returns a CheckoutProvider backed by Stripe Checkout.
// All card handling happens on Stripe's hosted page; this adapter only
// creates sessions.
func NewStripeProvider(cfg Config) domain.CheckoutProvider {
	stripe.Key = cfg.SecretKey
	return &stripeProvider{
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

func (p *stripeProvider) CreateSession(ctx context.Context, order *domain.Order, eventName string) (*domain.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.successURL),
		CancelURL:  stripe.String(p.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(order.Currency),
					UnitAmount: stripe.Int64(order.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(eventName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(order.ID),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}
	return &domain.CheckoutSession{SessionID: sess.ID, URL: sess.URL}, nil
}
