package domain

import (
	"context"
	"time"
)

// Subscription records a user following a host.
// swagger:model Subscription
type Subscription struct {
	FollowerID string    `json:"follower_id"`
	HostID     string    `json:"host_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubscriptionRepository defines storage for host subscriptions.
// Add is idempotent.
type SubscriptionRepository interface {
	Add(ctx context.Context, followerID, hostID string, createdAt time.Time) error
	Remove(ctx context.Context, followerID, hostID string) error
	ListHostIDsByFollowerID(ctx context.Context, followerID string) ([]string, error)
	ListFollowerIDsByHostID(ctx context.Context, hostID string) ([]string, error)
}

// SubscriptionService defines the follow-a-host workflow.
type SubscriptionService interface {
	Follow(ctx context.Context, followerID, hostID string) error
	Unfollow(ctx context.Context, followerID, hostID string) error
	// ListFollowed returns the public profiles of hosts the user follows.
	ListFollowed(ctx context.Context, followerID string) ([]*PublicProfile, error)
}
