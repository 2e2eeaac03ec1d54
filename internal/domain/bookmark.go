package domain

import (
	"context"
	"time"
)

// Bookmark marks an event as saved by a user.
// swagger:model Bookmark
type Bookmark struct {
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkRepository defines storage for bookmarks. Add is idempotent.
type BookmarkRepository interface {
	Add(ctx context.Context, userID, eventID string, createdAt time.Time) error
	Remove(ctx context.Context, userID, eventID string) error
	ListEventIDsByUserID(ctx context.Context, userID string) ([]string, error)
}

// BookmarkService defines bookmark operations.
type BookmarkService interface {
	Add(ctx context.Context, userID, eventID string) error
	Remove(ctx context.Context, userID, eventID string) error
	List(ctx context.Context, userID string) ([]*Event, error)
}
