package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

type subscriptionService struct {
	subRepo  domain.SubscriptionRepository
	userRepo domain.UserRepository
	roleRepo domain.RoleRepository
}

// NewSubscriptionService creates a SubscriptionService with the given repositories.
func NewSubscriptionService(subRepo domain.SubscriptionRepository, userRepo domain.UserRepository, roleRepo domain.RoleRepository) domain.SubscriptionService {
	return &subscriptionService{subRepo: subRepo, userRepo: userRepo, roleRepo: roleRepo}
}

func (s *subscriptionService) Follow(ctx context.Context, followerID, hostID string) error {
	if followerID == hostID {
		return fmt.Errorf("%w: cannot follow yourself", domain.ErrInvalidInput)
	}
	host, err := s.userRepo.GetByID(ctx, hostID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get host: %w", err)
	}
	if !host.Active {
		return domain.ErrUserNotFound
	}

	roles, err := s.roleRepo.ListByUserID(ctx, hostID)
	if err != nil {
		return fmt.Errorf("load host roles: %w", err)
	}
	isHost := false
	for _, r := range roles {
		if r.Code == domain.RoleHost {
			isHost = true
			break
		}
	}
	if !isHost {
		return fmt.Errorf("%w: user is not a host", domain.ErrInvalidInput)
	}

	if err := s.subRepo.Add(ctx, followerID, hostID, time.Now()); err != nil {
		return fmt.Errorf("add subscription: %w", err)
	}
	return nil
}

func (s *subscriptionService) Unfollow(ctx context.Context, followerID, hostID string) error {
	if err := s.subRepo.Remove(ctx, followerID, hostID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("remove subscription: %w", err)
	}
	return nil
}

func (s *subscriptionService) ListFollowed(ctx context.Context, followerID string) ([]*domain.PublicProfile, error) {
	ids, err := s.subRepo.ListHostIDsByFollowerID(ctx, followerID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	hosts := []*domain.PublicProfile{}
	for _, id := range ids {
		host, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get host: %w", err)
		}
		hosts = append(hosts, host.Public())
	}
	return hosts, nil
}
