package services

import (
	"context"
	"fmt"

	"campusevents/internal/domain"
)

// Point values per activity. Stats are recomputed from the activity records
// on every read; no gamification state is ever persisted, so the figures can
// never drift from the underlying registrations and reviews.
const (
	pointsPerRegistration = 10
	pointsPerAttendance   = 25
	pointsPerReview       = 5
	pointsPerLevel        = 100
)

// badgeThreshold awards a badge once a counter reaches the threshold.
type badgeThreshold struct {
	name      string
	threshold int
}

var (
	attendanceBadges = []badgeThreshold{
		{"first-steps", 1},
		{"regular", 5},
		{"campus-fixture", 20},
	}
	reviewBadges = []badgeThreshold{
		{"critic", 1},
		{"voice-of-campus", 10},
	}
)

type gamificationService struct {
	regRepo    domain.RegistrationRepository
	reviewRepo domain.ReviewRepository
}

// NewGamificationService creates a GamificationService with the given repositories.
func NewGamificationService(regRepo domain.RegistrationRepository, reviewRepo domain.ReviewRepository) domain.GamificationService {
	return &gamificationService{regRepo: regRepo, reviewRepo: reviewRepo}
}

func (s *gamificationService) StatsFor(ctx context.Context, userID string) (*domain.UserStats, error) {
	eventIDs, err := s.regRepo.ListRegisteredEventIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	attended, err := s.regRepo.CountAttendedByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count attendance: %w", err)
	}
	reviews, err := s.reviewRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	registrations := len(eventIDs)
	points := registrations*pointsPerRegistration + attended*pointsPerAttendance + reviews*pointsPerReview

	badges := []string{}
	for _, b := range attendanceBadges {
		if attended >= b.threshold {
			badges = append(badges, b.name)
		}
	}
	for _, b := range reviewBadges {
		if reviews >= b.threshold {
			badges = append(badges, b.name)
		}
	}

	return &domain.UserStats{
		Points:            points,
		Level:             points/pointsPerLevel + 1,
		RegistrationCount: registrations,
		AttendedCount:     attended,
		ReviewCount:       reviews,
		Badges:            badges,
	}, nil
}
