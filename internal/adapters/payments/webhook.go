package payments

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"campusevents/internal/domain"
)

type stripeWebhookVerifier struct {
	secret string
}

// NewStripeWebhookVerifier returns a WebhookVerifier that checks the
// Stripe-Signature header against the endpoint's signing secret before
// trusting anything in the payload.
func NewStripeWebhookVerifier(secret string) domain.WebhookVerifier {
	return &stripeWebhookVerifier{secret: secret}
}

func (v *stripeWebhookVerifier) VerifyEvent(payload []byte, signature string) (*domain.ProviderEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, v.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: webhook signature verification failed", domain.ErrInvalidInput)
	}

	var outcome string
	switch string(event.Type) {
	case "checkout.session.completed":
		outcome = "completed"
	case "checkout.session.expired":
		outcome = "expired"
	case "checkout.session.async_payment_failed":
		outcome = "failed"
	default:
		// Genuine event we are not subscribed to act on.
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decode checkout session payload: %w", err)
	}
	if sess.ID == "" {
		return nil, fmt.Errorf("%w: event %s carries no session id", domain.ErrInvalidInput, event.ID)
	}
	return &domain.ProviderEvent{SessionID: sess.ID, Outcome: outcome}, nil
}
