package domain

import (
	"context"
	"time"
)

// Order statuses.
const (
	OrderPending = "pending"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)

// Order tracks a checkout for a paid event.
// swagger:model Order
type Order struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	EventID           string    `json:"event_id"`
	AmountCents       int64     `json:"amount_cents"`
	Currency          string    `json:"currency"`
	ProviderSessionID string    `json:"-"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CheckoutSession is the provider-hosted checkout handle returned to clients.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// CheckoutProvider creates hosted checkout sessions with a third-party
// payment service. All card handling and settlement lives on the provider.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, order *Order, eventName string) (*CheckoutSession, error)
}

// ProviderEvent is a verified provider callback reduced to the session it
// concerns and its outcome ("completed", "expired" or "failed").
type ProviderEvent struct {
	SessionID string
	Outcome   string
}

// WebhookVerifier authenticates a raw provider callback against its
// signature header. A nil event with a nil error means the payload was
// genuine but of a type that needs no action.
type WebhookVerifier interface {
	VerifyEvent(payload []byte, signature string) (*ProviderEvent, error)
}

// OrderRepository defines storage for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByProviderSessionID(ctx context.Context, sessionID string) (*Order, error)
	GetPaidByEventAndUser(ctx context.Context, eventID, userID string) (*Order, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
}

// PaymentService wraps the checkout workflow for paid events.
type PaymentService interface {
	// CreateCheckout creates a pending order and a provider session for the
	// event. Free events are rejected with ErrInvalidInput.
	CreateCheckout(ctx context.Context, eventID, userID string) (*CheckoutSession, error)
	// HandleProviderEvent resolves a provider callback to an order status
	// transition ("completed" -> paid, "expired"/"failed" -> failed).
	HandleProviderEvent(ctx context.Context, providerSessionID, outcome string) error
}
