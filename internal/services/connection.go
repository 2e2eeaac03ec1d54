package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campusevents/internal/domain"
)

type connectionService struct {
	connRepo domain.ConnectionRepository
	userRepo domain.UserRepository
}

// NewConnectionService creates a ConnectionService with the given repositories.
func NewConnectionService(connRepo domain.ConnectionRepository, userRepo domain.UserRepository) domain.ConnectionService {
	return &connectionService{connRepo: connRepo, userRepo: userRepo}
}

func (s *connectionService) Request(ctx context.Context, requesterID, targetID string) (*domain.Connection, error) {
	if requesterID == targetID {
		return nil, domain.ErrSelfConnection
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get target user: %w", err)
	}
	if !target.Active {
		return nil, domain.ErrUserNotFound
	}

	// One edge per unordered pair: look up the symmetric edge first. A
	// declined edge is revived as a fresh pending request from the caller.
	existing, err := s.connRepo.GetByPair(ctx, requesterID, targetID)
	if err == nil {
		switch existing.Status {
		case domain.ConnectionDeclined:
			now := time.Now()
			if err := s.connRepo.UpdateStatus(ctx, existing.ID, domain.ConnectionPending, now); err != nil {
				return nil, fmt.Errorf("revive declined connection: %w", err)
			}
			existing.Status = domain.ConnectionPending
			existing.UpdatedAt = now
			return existing, nil
		default:
			return nil, domain.ErrAlreadyConnected
		}
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get connection: %w", err)
	}

	now := time.Now()
	conn := &domain.Connection{
		RequesterID: requesterID,
		AddresseeID: targetID,
		Status:      domain.ConnectionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.connRepo.Create(ctx, conn); err != nil {
		if errors.Is(err, domain.ErrAlreadyConnected) {
			return nil, domain.ErrAlreadyConnected
		}
		return nil, fmt.Errorf("create connection: %w", err)
	}
	return conn, nil
}

func (s *connectionService) Accept(ctx context.Context, connectionID, userID string) (*domain.Connection, error) {
	return s.respond(ctx, connectionID, userID, domain.ConnectionAccepted)
}

func (s *connectionService) Decline(ctx context.Context, connectionID, userID string) (*domain.Connection, error) {
	return s.respond(ctx, connectionID, userID, domain.ConnectionDeclined)
}

// respond transitions a pending connection to accepted or declined.
// Only the addressee may respond.
func (s *connectionService) respond(ctx context.Context, connectionID, userID, status string) (*domain.Connection, error) {
	conn, err := s.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get connection: %w", err)
	}
	if conn.AddresseeID != userID {
		return nil, domain.ErrForbidden
	}
	if conn.Status != domain.ConnectionPending {
		return nil, fmt.Errorf("%w: connection is not pending", domain.ErrInvalidInput)
	}

	now := time.Now()
	if err := s.connRepo.UpdateStatus(ctx, connectionID, status, now); err != nil {
		return nil, fmt.Errorf("update connection status: %w", err)
	}
	conn.Status = status
	conn.UpdatedAt = now
	return conn, nil
}

func (s *connectionService) Remove(ctx context.Context, connectionID, userID string) error {
	conn, err := s.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get connection: %w", err)
	}
	if !conn.Involves(userID) {
		return domain.ErrNotConnectionPeer
	}
	// Pending requests may only be cancelled by the side that sent them.
	if conn.Status == domain.ConnectionPending && conn.RequesterID != userID {
		return domain.ErrForbidden
	}
	if err := s.connRepo.Delete(ctx, connectionID); err != nil {
		return fmt.Errorf("delete connection: %w", err)
	}
	return nil
}

func (s *connectionService) List(ctx context.Context, userID, status string) ([]*domain.ConnectionWithPeer, error) {
	if status != "" && status != domain.ConnectionPending && status != domain.ConnectionAccepted && status != domain.ConnectionDeclined {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	conns, err := s.connRepo.ListByUserID(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	result := make([]*domain.ConnectionWithPeer, 0, len(conns))
	for _, conn := range conns {
		peer, err := s.userRepo.GetByID(ctx, conn.PeerID(userID))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get peer: %w", err)
		}
		result = append(result, &domain.ConnectionWithPeer{
			Connection: conn,
			Peer:       peer.Public(),
		})
	}
	return result, nil
}
