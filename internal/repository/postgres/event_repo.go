package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"campusevents/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `id, owner_id, name, description, location, start_time, capacity, price_cents, tags, deleted, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	ev := &domain.Event{}
	var tags pq.StringArray
	err := row.Scan(&ev.ID, &ev.OwnerID, &ev.Name, &ev.Description, &ev.Location,
		&ev.StartTime, &ev.Capacity, &ev.PriceCents, &tags, &ev.Deleted, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ev.Tags = []string(tags)
	return ev, nil
}

func (r *eventRepository) Create(ctx context.Context, ev *domain.Event) error {
	query := `
		INSERT INTO events (owner_id, name, description, location, start_time, capacity, price_cents, tags, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		ev.OwnerID, ev.Name, ev.Description, ev.Location, ev.StartTime,
		ev.Capacity, ev.PriceCents, pq.Array(ev.Tags), ev.CreatedAt, ev.UpdatedAt,
	).Scan(&ev.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND deleted = FALSE`
	ev, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ev, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	where := `WHERE deleted = FALSE`
	var args []any
	if filter.UpcomingOnly {
		where += ` AND start_time >= NOW()`
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where += fmt.Sprintf(` AND owner_id = $%d`, len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where += fmt.Sprintf(` AND $%d = ANY(tags)`, len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.PageSize, p.Offset())
	query := fmt.Sprintf(`SELECT `+eventColumns+` FROM events %s ORDER BY start_time ASC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, ev *domain.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, location = $3, start_time = $4, capacity = $5, price_cents = $6, tags = $7, updated_at = $8
		WHERE id = $9 AND deleted = FALSE
	`
	res, err := r.DB.ExecContext(ctx, query,
		ev.Name, ev.Description, ev.Location, ev.StartTime, ev.Capacity,
		ev.PriceCents, pq.Array(ev.Tags), ev.UpdatedAt, ev.ID)
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

func (r *eventRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	query := `UPDATE events SET deleted = TRUE, updated_at = $1 WHERE id = $2 AND deleted = FALSE`
	res, err := r.DB.ExecContext(ctx, query, deletedAt, id)
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
