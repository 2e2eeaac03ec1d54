package postgres

import (
	"context"
	"database/sql"
	"time"

	"campusevents/internal/domain"
)

type bookmarkRepository struct {
	DB *sql.DB
}

func NewBookmarkRepository(db *sql.DB) domain.BookmarkRepository {
	return &bookmarkRepository{DB: db}
}

func (r *bookmarkRepository) Add(ctx context.Context, userID, eventID string, createdAt time.Time) error {
	query := `
		INSERT INTO bookmarks (user_id, event_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, userID, eventID, createdAt)
	return err
}

func (r *bookmarkRepository) Remove(ctx context.Context, userID, eventID string) error {
	query := `DELETE FROM bookmarks WHERE user_id = $1 AND event_id = $2`
	res, err := r.DB.ExecContext(ctx, query, userID, eventID)
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

func (r *bookmarkRepository) ListEventIDsByUserID(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT b.event_id
		FROM bookmarks b
		JOIN events e ON e.id = b.event_id
		WHERE b.user_id = $1 AND e.deleted = FALSE
		ORDER BY b.created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
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
