package domain

import (
	"context"
	"errors"
	"time"
)

// Registration statuses.
const (
	RegistrationRegistered = "registered"
	RegistrationCancelled  = "cancelled"
)

// ErrEventFull is returned when an event has reached its capacity.
var ErrEventFull = errors.New("event is at capacity")

// ErrPaymentRequired is returned when registering for a paid event without a
// paid order.
var ErrPaymentRequired = errors.New("payment required")

// Registration represents a user's membership in an event. One row exists per
// (event, user); cancelling flips the status rather than deleting the row.
// swagger:model Registration
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Attended  bool      `json:"attended"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// CalendarDay groups a user's registered events by the day they start.
type CalendarDay struct {
	Date   string   `json:"date"` // YYYY-MM-DD
	Events []*Event `json:"events"`
}

// RegistrationRepository defines storage for event registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	SetAttended(ctx context.Context, id string, attended bool, updatedAt time.Time) error
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	CountRegisteredByEventID(ctx context.Context, eventID string) (int, error)
	// ListRegisteredEventIDs returns IDs of non-deleted events where the user
	// holds a registration with status "registered".
	ListRegisteredEventIDs(ctx context.Context, userID string) ([]string, error)
	// ListRegisteredUserIDsByEvents returns, per event ID, the user IDs
	// holding a "registered" registration. Events with no registrants are
	// absent from the map.
	ListRegisteredUserIDsByEvents(ctx context.Context, eventIDs []string) (map[string][]string, error)
	// CountAttendedByUserID counts registrations of the user flagged attended.
	CountAttendedByUserID(ctx context.Context, userID string) (int, error)
}

// AttendeeService defines attendee-facing operations around registrations.
type AttendeeService interface {
	// Register registers the user for the event. Returns (reg, created, err):
	// created is true if a new registration was created or a cancelled one
	// was revived, false if already registered.
	Register(ctx context.Context, eventID, userID string) (*Registration, bool, error)
	Cancel(ctx context.Context, eventID, userID string) error
	ListMyEvents(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
	// Calendar buckets the user's registered events by start date, ascending.
	Calendar(ctx context.Context, userID string) ([]*CalendarDay, error)
	// MarkAttended flags a registration as attended; only the event owner may
	// do this.
	MarkAttended(ctx context.Context, eventID, userID, callerID string) error
}
