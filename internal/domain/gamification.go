package domain

import "context"

// UserStats are gamification figures derived on read from registrations,
// attendance, and reviews. Nothing here is persisted: the store's activity
// records are the sole source of truth.
// swagger:model UserStats
type UserStats struct {
	Points            int      `json:"points"`
	Level             int      `json:"level"`
	RegistrationCount int      `json:"registration_count"`
	AttendedCount     int      `json:"attended_count"`
	ReviewCount       int      `json:"review_count"`
	Badges            []string `json:"badges"`
}

// GamificationService recomputes user stats on demand.
type GamificationService interface {
	StatsFor(ctx context.Context, userID string) (*UserStats, error)
}
