package postgres

import (
	"context"
	"database/sql"
	"time"

	"campusevents/internal/domain"
)

type subscriptionRepository struct {
	DB *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) domain.SubscriptionRepository {
	return &subscriptionRepository{DB: db}
}

func (r *subscriptionRepository) Add(ctx context.Context, followerID, hostID string, createdAt time.Time) error {
	query := `
		INSERT INTO subscriptions (follower_id, host_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (follower_id, host_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, followerID, hostID, createdAt)
	return err
}

func (r *subscriptionRepository) Remove(ctx context.Context, followerID, hostID string) error {
	query := `DELETE FROM subscriptions WHERE follower_id = $1 AND host_id = $2`
	res, err := r.DB.ExecContext(ctx, query, followerID, hostID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *subscriptionRepository) ListHostIDsByFollowerID(ctx context.Context, followerID string) ([]string, error) {
	return r.listColumn(ctx, `SELECT host_id FROM subscriptions WHERE follower_id = $1 ORDER BY created_at DESC`, followerID)
}

func (r *subscriptionRepository) ListFollowerIDsByHostID(ctx context.Context, hostID string) ([]string, error) {
	return r.listColumn(ctx, `SELECT follower_id FROM subscriptions WHERE host_id = $1 ORDER BY created_at DESC`, hostID)
}

func (r *subscriptionRepository) listColumn(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
