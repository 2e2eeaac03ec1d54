package domain

import (
	"context"
	"time"
)

// Event represents an activity a host publishes; users join via registrations.
// Deleted is a soft flag: rows are never physically removed.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	Capacity    int       `json:"capacity"` // 0 = unlimited
	PriceCents  int64     `json:"price_cents"`
	Tags        []string  `json:"tags"`
	Deleted     bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	UpcomingOnly bool
	OwnerID      string
	Tag          string
}

// EventUpdate carries the patchable fields of an event; nil means unchanged.
type EventUpdate struct {
	Name        *string
	Description *string
	Location    *string
	StartTime   *time.Time
	Capacity    *int
	PriceCents  *int64
	Tags        []string
}

// EventRepository defines the interface for event storage. All reads exclude
// soft-deleted events unless noted.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) error
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
}

// EventService defines host-facing event management.
type EventService interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	// Update applies the patch; only the owner may update.
	Update(ctx context.Context, eventID, callerID string, patch EventUpdate) (*Event, error)
	// Delete soft-deletes; allowed for the owner or an admin.
	Delete(ctx context.Context, eventID, callerID string, callerIsAdmin bool) error
}
