package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"campusevents/internal/domain"
)

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) domain.OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `id, user_id, event_id, amount_cents, currency, provider_session_id, status, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	o := &domain.Order{}
	err := row.Scan(&o.ID, &o.UserID, &o.EventID, &o.AmountCents, &o.Currency,
		&o.ProviderSessionID, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `
		INSERT INTO orders (id, user_id, event_id, amount_cents, currency, provider_session_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		o.ID, o.UserID, o.EventID, o.AmountCents, o.Currency,
		o.ProviderSessionID, o.Status, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *orderRepository) GetByProviderSessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE provider_session_id = $1`
	o, err := scanOrder(r.DB.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) GetPaidByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE event_id = $1 AND user_id = $2 AND status = 'paid'
		ORDER BY created_at DESC
		LIMIT 1
	`
	o, err := scanOrder(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, status, updatedAt, id)
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
