package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"campusevents/internal/domain"
)

type connectionRepository struct {
	DB *sql.DB
}

func NewConnectionRepository(db *sql.DB) domain.ConnectionRepository {
	return &connectionRepository{DB: db}
}

const connectionColumns = `id, requester_id, addressee_id, status, created_at, updated_at`

func scanConnection(row interface{ Scan(...any) error }) (*domain.Connection, error) {
	c := &domain.Connection{}
	err := row.Scan(&c.ID, &c.RequesterID, &c.AddresseeID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *connectionRepository) Create(ctx context.Context, c *domain.Connection) error {
	query := `
		INSERT INTO connections (requester_id, addressee_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.RequesterID, c.AddresseeID, c.Status, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrAlreadyConnected
		}
		return err
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id string) (*domain.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = $1`
	c, err := scanConnection(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *connectionRepository) GetByPair(ctx context.Context, userA, userB string) (*domain.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE (requester_id = $1 AND addressee_id = $2)
		   OR (requester_id = $2 AND addressee_id = $1)
	`
	c, err := scanConnection(r.DB.QueryRowContext(ctx, query, userA, userB))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *connectionRepository) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	query := `UPDATE connections SET status = $1, updated_at = $2 WHERE id = $3`
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

func (r *connectionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM connections WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
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

func (r *connectionRepository) ListByUserID(ctx context.Context, userID, status string) ([]*domain.Connection, error) {
	query := `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE (requester_id = $1 OR addressee_id = $1)
	`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []*domain.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if conns == nil {
		conns = []*domain.Connection{}
	}
	return conns, nil
}

func (r *connectionRepository) ListAcceptedPeerIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT CASE WHEN requester_id = $1 THEN addressee_id ELSE requester_id END
		FROM connections
		WHERE (requester_id = $1 OR addressee_id = $1) AND status = 'accepted'
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

func (r *connectionRepository) CountAcceptedEdgesWithPeers(ctx context.Context, peerIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(peerIDs) == 0 {
		return counts, nil
	}
	// For every accepted edge touching one of the peers, credit the other
	// side. The service intersects the result with its candidate set.
	query := `
		SELECT other_id, COUNT(*)
		FROM (
			SELECT CASE WHEN requester_id = ANY($1) THEN addressee_id ELSE requester_id END AS other_id
			FROM connections
			WHERE status = 'accepted'
			  AND (requester_id = ANY($1) OR addressee_id = ANY($1))
		) edges
		GROUP BY other_id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(peerIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
