package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"campusevents/internal/domain"
)

type attendeeService struct {
	eventRepo    domain.EventRepository
	regRepo      domain.RegistrationRepository
	orderRepo    domain.OrderRepository
	userRepo     domain.UserRepository
	emailService domain.EmailService
	logger       *slog.Logger
}

// NewAttendeeService creates an AttendeeService with the given repositories.
func NewAttendeeService(
	eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	orderRepo domain.OrderRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.AttendeeService {
	return &attendeeService{
		eventRepo:    eventRepo,
		regRepo:      regRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *attendeeService) Register(ctx context.Context, eventID, userID string) (*domain.Registration, bool, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event: %w", err)
	}

	// Idempotent: an existing registered row is returned as-is, a cancelled
	// row is revived.
	existing, err := s.regRepo.GetByEventAndUser(ctx, eventID, userID)
	if err == nil {
		if existing.Status == domain.RegistrationRegistered {
			return existing, false, nil
		}
		if err := s.ensureJoinable(ctx, event, userID); err != nil {
			return nil, false, err
		}
		now := time.Now()
		if err := s.regRepo.UpdateStatus(ctx, existing.ID, domain.RegistrationRegistered, now); err != nil {
			return nil, false, fmt.Errorf("revive registration: %w", err)
		}
		existing.Status = domain.RegistrationRegistered
		existing.UpdatedAt = now
		s.sendConfirmation(ctx, event, userID)
		return existing, true, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get registration: %w", err)
	}

	if err := s.ensureJoinable(ctx, event, userID); err != nil {
		return nil, false, err
	}

	now := time.Now()
	reg := &domain.Registration{
		EventID:   eventID,
		UserID:    userID,
		Status:    domain.RegistrationRegistered,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.regRepo.Create(ctx, reg); err != nil {
		// A concurrent registration for the same pair won the insert race.
		if errors.Is(err, domain.ErrConflict) {
			if existing, gerr := s.regRepo.GetByEventAndUser(ctx, eventID, userID); gerr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("create registration: %w", err)
	}
	s.sendConfirmation(ctx, event, userID)
	return reg, true, nil
}

// ensureJoinable checks capacity and, for paid events, a paid order.
func (s *attendeeService) ensureJoinable(ctx context.Context, event *domain.Event, userID string) error {
	if event.Capacity > 0 {
		count, err := s.regRepo.CountRegisteredByEventID(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("count registrations: %w", err)
		}
		if count >= event.Capacity {
			return domain.ErrEventFull
		}
	}
	if event.PriceCents > 0 {
		if _, err := s.orderRepo.GetPaidByEventAndUser(ctx, event.ID, userID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrPaymentRequired
			}
			return fmt.Errorf("get paid order: %w", err)
		}
	}
	return nil
}

func (s *attendeeService) sendConfirmation(ctx context.Context, event *domain.Event, userID string) {
	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "confirmation email skipped", "user_id", userID, "err", err)
		return
	}
	data := &domain.RegistrationConfirmedEmailData{
		Email:     user.Email,
		FirstName: user.Name,
		EventName: event.Name,
		EventDate: event.StartTime.Format("January 2, 2006 15:04"),
		Location:  event.Location,
	}
	if err := s.emailService.SendRegistrationConfirmed(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "confirmation email failed", "email", user.Email, "err", err)
	}
}

func (s *attendeeService) Cancel(ctx context.Context, eventID, userID string) error {
	reg, err := s.regRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	if reg.Status == domain.RegistrationCancelled {
		return nil
	}
	if err := s.regRepo.UpdateStatus(ctx, reg.ID, domain.RegistrationCancelled, time.Now()); err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}
	return nil
}

func (s *attendeeService) ListMyEvents(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	regs, err := s.regRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	result := []*domain.RegistrationWithEvent{}
	eventsByID := make(map[string]*domain.Event)
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event soft-deleted; the registration row stays but the
					// entry is hidden.
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.RegistrationWithEvent{Registration: reg, Event: ev})
	}
	return result, nil
}

func (s *attendeeService) Calendar(ctx context.Context, userID string) ([]*domain.CalendarDay, error) {
	items, err := s.ListMyEvents(ctx, userID)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]*domain.Event)
	for _, it := range items {
		if it.Registration.Status != domain.RegistrationRegistered {
			continue
		}
		date := it.Event.StartTime.UTC().Format("2006-01-02")
		byDate[date] = append(byDate[date], it.Event)
	}

	days := make([]*domain.CalendarDay, 0, len(byDate))
	for date, events := range byDate {
		sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
		days = append(days, &domain.CalendarDay{Date: date, Events: events})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}

func (s *attendeeService) MarkAttended(ctx context.Context, eventID, userID, callerID string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID {
		return domain.ErrForbidden
	}

	reg, err := s.regRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	if reg.Status != domain.RegistrationRegistered {
		return fmt.Errorf("%w: registration is cancelled", domain.ErrInvalidInput)
	}
	if reg.Attended {
		return nil
	}
	if err := s.regRepo.SetAttended(ctx, reg.ID, true, time.Now()); err != nil {
		return fmt.Errorf("mark attended: %w", err)
	}
	return nil
}
