package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"campusevents/internal/domain"
)

type reviewRepository struct {
	DB *sql.DB
}

func NewReviewRepository(db *sql.DB) domain.ReviewRepository {
	return &reviewRepository{DB: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (event_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		review.EventID, review.UserID, review.Rating, review.Comment, review.CreatedAt).Scan(&review.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyReviewed
		}
		return err
	}
	return nil
}

func (r *reviewRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Review, error) {
	query := `
		SELECT id, event_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE event_id = $1 AND user_id = $2
	`
	review := &domain.Review{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&review.ID, &review.EventID, &review.UserID, &review.Rating, &review.Comment, &review.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

func (r *reviewRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Review, error) {
	query := `
		SELECT id, event_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE event_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review := &domain.Review{}
		if err := rows.Scan(&review.ID, &review.EventID, &review.UserID, &review.Rating, &review.Comment, &review.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return reviews, nil
}

func (r *reviewRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE user_id = $1`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
