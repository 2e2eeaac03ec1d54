package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"campusevents/internal/domain"
)

func paymentFixture(orderRepo *mockOrderRepository, provider *mockCheckoutProvider) domain.PaymentService {
	eventRepo := &mockEventRepository{events: map[string]*domain.Event{
		"event-paid": {ID: "event-paid", OwnerID: "host-1", Name: "Gala", PriceCents: 2500},
		"event-free": {ID: "event-free", OwnerID: "host-1", Name: "Meetup", PriceCents: 0},
	}}
	return NewPaymentService(orderRepo, eventRepo, provider, "EUR", testLogger())
}

func TestPaymentService_CreateCheckout(t *testing.T) {
	orderRepo := &mockOrderRepository{}
	provider := &mockCheckoutProvider{session: &domain.CheckoutSession{SessionID: "sess-1", URL: "https://pay.example/sess-1"}}
	svc := paymentFixture(orderRepo, provider)

	session, err := svc.CreateCheckout(context.Background(), "event-paid", "user-1")
	if err != nil {
		t.Fatalf("CreateCheckout() error = %v", err)
	}
	if session.SessionID != "sess-1" {
		t.Fatalf("session = %+v", session)
	}
	if len(orderRepo.created) != 1 {
		t.Fatalf("orders persisted = %d", len(orderRepo.created))
	}

	order := orderRepo.created[0]
	if order.AmountCents != 2500 || order.Currency != "EUR" || order.Status != domain.OrderPending {
		t.Fatalf("order = %+v", order)
	}
	if order.ProviderSessionID != "sess-1" {
		t.Fatalf("provider session id = %q", order.ProviderSessionID)
	}
	if order.ID == "" {
		t.Fatalf("order ID must be assigned before checkout")
	}
}

func TestPaymentService_CreateCheckoutRejections(t *testing.T) {
	tests := []struct {
		name    string
		eventID string
		paid    map[string]*domain.Order
		errIs   error
	}{
		{name: "unknown event", eventID: "event-404", errIs: domain.ErrNotFound},
		{name: "free event", eventID: "event-free", errIs: domain.ErrInvalidInput},
		{
			name:    "already paid",
			eventID: "event-paid",
			paid:    map[string]*domain.Order{"event-paid:user-1": {ID: "order-1", Status: domain.OrderPaid}},
			errIs:   domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := &mockOrderRepository{paid: tt.paid}
			provider := &mockCheckoutProvider{session: &domain.CheckoutSession{SessionID: "sess-1"}}
			svc := paymentFixture(orderRepo, provider)

			_, err := svc.CreateCheckout(context.Background(), tt.eventID, "user-1")
			if !errors.Is(err, tt.errIs) {
				t.Fatalf("CreateCheckout() error = %v, want %v", err, tt.errIs)
			}
			if len(orderRepo.created) != 0 {
				t.Fatalf("no order should be persisted")
			}
		})
	}
}

func TestPaymentService_CreateCheckoutProviderFailure(t *testing.T) {
	orderRepo := &mockOrderRepository{}
	provider := &mockCheckoutProvider{err: fmt.Errorf("provider unavailable")}
	svc := paymentFixture(orderRepo, provider)

	if _, err := svc.CreateCheckout(context.Background(), "event-paid", "user-1"); err == nil {
		t.Fatalf("expected error")
	}
	if len(orderRepo.created) != 0 {
		t.Fatalf("failed sessions must not leave orders behind")
	}
}

func TestPaymentService_HandleProviderEvent(t *testing.T) {
	tests := []struct {
		name       string
		sessionID  string
		outcome    string
		order      *domain.Order
		errIs      error
		wantStatus string
	}{
		{
			name:       "completed marks paid",
			sessionID:  "sess-1",
			outcome:    "completed",
			order:      &domain.Order{ID: "order-1", Status: domain.OrderPending},
			wantStatus: domain.OrderPaid,
		},
		{
			name:       "expired marks failed",
			sessionID:  "sess-1",
			outcome:    "expired",
			order:      &domain.Order{ID: "order-1", Status: domain.OrderPending},
			wantStatus: domain.OrderFailed,
		},
		{
			name:       "failed marks failed",
			sessionID:  "sess-1",
			outcome:    "failed",
			order:      &domain.Order{ID: "order-1", Status: domain.OrderPending},
			wantStatus: domain.OrderFailed,
		},
		{
			name:      "paid is terminal",
			sessionID: "sess-1",
			outcome:   "expired",
			order:     &domain.Order{ID: "order-1", Status: domain.OrderPaid},
		},
		{
			name:      "unknown session",
			sessionID: "sess-404",
			outcome:   "completed",
			order:     &domain.Order{ID: "order-1", Status: domain.OrderPending},
			errIs:     domain.ErrNotFound,
		},
		{
			name:      "unknown outcome",
			sessionID: "sess-1",
			outcome:   "vanished",
			order:     &domain.Order{ID: "order-1", Status: domain.OrderPending},
			errIs:     domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderRepo := &mockOrderRepository{bySession: map[string]*domain.Order{"sess-1": tt.order}}
			svc := paymentFixture(orderRepo, &mockCheckoutProvider{})

			err := svc.HandleProviderEvent(context.Background(), tt.sessionID, tt.outcome)
			if tt.errIs != nil {
				if !errors.Is(err, tt.errIs) {
					t.Fatalf("HandleProviderEvent() error = %v, want %v", err, tt.errIs)
				}
				return
			}
			if err != nil {
				t.Fatalf("HandleProviderEvent() error = %v", err)
			}
			if got := orderRepo.statusUpdates["order-1"]; got != tt.wantStatus {
				t.Fatalf("status update = %q, want %q", got, tt.wantStatus)
			}
		})
	}
}
