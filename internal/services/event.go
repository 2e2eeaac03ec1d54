package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
}

// NewEventService creates an EventService with the given repository.
func NewEventService(eventRepo domain.EventRepository) domain.EventService {
	return &eventService{eventRepo: eventRepo}
}

func (s *eventService) Create(ctx context.Context, ev *domain.Event) error {
	ev.Name = strings.TrimSpace(ev.Name)
	if ev.OwnerID == "" {
		return fmt.Errorf("%w: event owner is required", domain.ErrInvalidInput)
	}
	if ev.Name == "" {
		return fmt.Errorf("%w: event name is required", domain.ErrInvalidInput)
	}
	if ev.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time is required", domain.ErrInvalidInput)
	}
	if ev.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", domain.ErrInvalidInput)
	}
	if ev.PriceCents < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	if ev.Tags == nil {
		ev.Tags = []string{}
	}

	now := time.Now()
	ev.CreatedAt = now
	ev.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, ev); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ev, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

func (s *eventService) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	events, total, err := s.eventRepo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) Update(ctx context.Context, eventID, callerID string, patch domain.EventUpdate) (*domain.Event, error) {
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if ev.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: event name cannot be empty", domain.ErrInvalidInput)
		}
		ev.Name = name
	}
	if patch.Description != nil {
		ev.Description = *patch.Description
	}
	if patch.Location != nil {
		ev.Location = *patch.Location
	}
	if patch.StartTime != nil {
		ev.StartTime = *patch.StartTime
	}
	if patch.Capacity != nil {
		if *patch.Capacity < 0 {
			return nil, fmt.Errorf("%w: capacity cannot be negative", domain.ErrInvalidInput)
		}
		ev.Capacity = *patch.Capacity
	}
	if patch.PriceCents != nil {
		if *patch.PriceCents < 0 {
			return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
		}
		ev.PriceCents = *patch.PriceCents
	}
	if patch.Tags != nil {
		ev.Tags = patch.Tags
	}

	ev.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, ev); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return ev, nil
}

func (s *eventService) Delete(ctx context.Context, eventID, callerID string, callerIsAdmin bool) error {
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if ev.OwnerID != callerID && !callerIsAdmin {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.SoftDelete(ctx, eventID, time.Now()); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
