package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

type bookmarkService struct {
	bookmarkRepo domain.BookmarkRepository
	eventRepo    domain.EventRepository
}

// NewBookmarkService creates a BookmarkService with the given repositories.
func NewBookmarkService(bookmarkRepo domain.BookmarkRepository, eventRepo domain.EventRepository) domain.BookmarkService {
	return &bookmarkService{bookmarkRepo: bookmarkRepo, eventRepo: eventRepo}
}

func (s *bookmarkService) Add(ctx context.Context, userID, eventID string) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.bookmarkRepo.Add(ctx, userID, eventID, time.Now()); err != nil {
		return fmt.Errorf("add bookmark: %w", err)
	}
	return nil
}

func (s *bookmarkService) Remove(ctx context.Context, userID, eventID string) error {
	if err := s.bookmarkRepo.Remove(ctx, userID, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

func (s *bookmarkService) List(ctx context.Context, userID string) ([]*domain.Event, error) {
	ids, err := s.bookmarkRepo.ListEventIDsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	events := []*domain.Event{}
	for _, id := range ids {
		ev, err := s.eventRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get bookmarked event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}
