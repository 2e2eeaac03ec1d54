package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/domain"
)

const maxReviewCommentLen = 2000

type reviewService struct {
	reviewRepo domain.ReviewRepository
	regRepo    domain.RegistrationRepository
	eventRepo  domain.EventRepository
}

// NewReviewService creates a ReviewService with the given repositories.
func NewReviewService(reviewRepo domain.ReviewRepository, regRepo domain.RegistrationRepository, eventRepo domain.EventRepository) domain.ReviewService {
	return &reviewService{reviewRepo: reviewRepo, regRepo: regRepo, eventRepo: eventRepo}
}

func (s *reviewService) Submit(ctx context.Context, eventID, userID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxReviewCommentLen {
		return nil, fmt.Errorf("%w: comment too long", domain.ErrInvalidInput)
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	reg, err := s.regRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if reg.Status != domain.RegistrationRegistered {
		return nil, domain.ErrForbidden
	}

	review := &domain.Review{
		EventID:   eventID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrAlreadyReviewed) {
			return nil, domain.ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) ListForEvent(ctx context.Context, eventID string) (*domain.EventReviews, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	reviews, err := s.reviewRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := 0.0
	if len(reviews) > 0 {
		avg = float64(sum) / float64(len(reviews))
	}
	return &domain.EventReviews{Reviews: reviews, AverageRating: avg}, nil
}
