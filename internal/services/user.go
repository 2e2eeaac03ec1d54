package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/domain"
)

type userService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a UserService with the given repository.
func NewUserService(userRepo domain.UserRepository) domain.UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetPublicProfile(ctx context.Context, id string) (*domain.PublicProfile, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrUserNotFound
	}
	return user.Public(), nil
}

func (s *userService) Update(ctx context.Context, user *domain.User) error {
	user.Name = strings.TrimSpace(user.Name)
	user.LastName = strings.TrimSpace(user.LastName)
	user.Organization = strings.TrimSpace(user.Organization)
	if user.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	// Interests are stored trimmed and deduplicated case-insensitively.
	seen := make(map[string]struct{}, len(user.Interests))
	var interests []string
	for _, tag := range user.Interests {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		interests = append(interests, tag)
	}
	if interests == nil {
		interests = []string{}
	}
	user.Interests = interests

	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *userService) Deactivate(ctx context.Context, id string) error {
	if err := s.userRepo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("deactivate user: %w", err)
	}
	return nil
}

func (s *userService) Reactivate(ctx context.Context, id string) error {
	if err := s.userRepo.SetActive(ctx, id, true); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("reactivate user: %w", err)
	}
	return nil
}
