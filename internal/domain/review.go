package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyReviewed is returned when a user reviews an event twice.
var ErrAlreadyReviewed = errors.New("event already reviewed")

// Review is a user's rating and comment for an event. One per (event, user).
// swagger:model Review
type Review struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// EventReviews bundles an event's reviews with the average rating.
type EventReviews struct {
	Reviews       []*Review `json:"reviews"`
	AverageRating float64   `json:"average_rating"`
}

// ReviewRepository defines storage for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Review, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Review, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// ReviewService defines review collection.
type ReviewService interface {
	// Submit records a review; the user must hold a registration for the
	// event and may review it at most once.
	Submit(ctx context.Context, eventID, userID string, rating int, comment string) (*Review, error)
	ListForEvent(ctx context.Context, eventID string) (*EventReviews, error)
}
