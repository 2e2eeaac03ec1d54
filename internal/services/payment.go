package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

type paymentService struct {
	orderRepo domain.OrderRepository
	eventRepo domain.EventRepository
	provider  domain.CheckoutProvider
	currency  string
	logger    *slog.Logger
}

// NewPaymentService creates a PaymentService backed by a hosted checkout
// provider.
func NewPaymentService(
	orderRepo domain.OrderRepository,
	eventRepo domain.EventRepository,
	provider domain.CheckoutProvider,
	currency string,
	logger *slog.Logger,
) domain.PaymentService {
	return &paymentService{
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		provider:  provider,
		currency:  currency,
		logger:    logger,
	}
}

func (s *paymentService) CreateCheckout(ctx context.Context, eventID, userID string) (*domain.CheckoutSession, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.PriceCents <= 0 {
		return nil, fmt.Errorf("%w: event is free", domain.ErrInvalidInput)
	}

	if _, err := s.orderRepo.GetPaidByEventAndUser(ctx, eventID, userID); err == nil {
		return nil, fmt.Errorf("%w: event already paid", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get paid order: %w", err)
	}

	now := time.Now()
	order := &domain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		EventID:     eventID,
		AmountCents: event.PriceCents,
		Currency:    s.currency,
		Status:      domain.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	session, err := s.provider.CreateSession(ctx, order, event.Name)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	order.ProviderSessionID = session.SessionID

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.logger.InfoContext(ctx, "checkout created", "order_id", order.ID, "event_id", eventID, "amount_cents", order.AmountCents)
	return session, nil
}

func (s *paymentService) HandleProviderEvent(ctx context.Context, providerSessionID, outcome string) error {
	order, err := s.orderRepo.GetByProviderSessionID(ctx, providerSessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get order: %w", err)
	}

	var status string
	switch outcome {
	case "completed":
		status = domain.OrderPaid
	case "expired", "failed":
		status = domain.OrderFailed
	default:
		return fmt.Errorf("%w: unknown outcome %q", domain.ErrInvalidInput, outcome)
	}

	// Paid is terminal; provider retries must not downgrade it.
	if order.Status == domain.OrderPaid {
		return nil
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, status, time.Now()); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	s.logger.InfoContext(ctx, "order status updated", "order_id", order.ID, "status", status)
	return nil
}
