package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"campusevents/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		reg     *domain.Registration
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			reg: &domain.Registration{
				EventID:   "event-uuid-1",
				UserID:    "user-uuid-1",
				Status:    domain.RegistrationRegistered,
				CreatedAt: now,
				UpdatedAt: now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WithArgs("event-uuid-1", "user-uuid-1", domain.RegistrationRegistered, false, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-uuid-1"))
			},
		},
		{
			name: "duplicate registration returns ErrConflict",
			reg:  &domain.Registration{EventID: "event-uuid-1", UserID: "user-uuid-1"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrConflict,
		},
		{
			name: "db error",
			reg:  &domain.Registration{EventID: "event-uuid-1", UserID: "user-uuid-1"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			err = repo.Create(ctx, tt.reg)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, "reg-uuid-1", tt.reg.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_GetByEventAndUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "event_id", "user_id", "status", "attended", "created_at", "updated_at"}).
					AddRow("reg-uuid-1", "event-uuid-1", "user-uuid-1", domain.RegistrationRegistered, true, now, now)
				mock.ExpectQuery(`SELECT (.+) FROM registrations`).
					WithArgs("event-uuid-1", "user-uuid-1").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM registrations`).
					WithArgs("event-uuid-1", "user-uuid-1").
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			reg, err := repo.GetByEventAndUser(ctx, "event-uuid-1", "user-uuid-1")
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, "reg-uuid-1", reg.ID)
				require.True(t, reg.Attended)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_CountRegisteredByEventID(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM registrations`).
		WithArgs("event-uuid-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	repo := NewRegistrationRepository(db)
	n, err := repo.CountRegisteredByEventID(ctx, "event-uuid-1")
	require.NoError(t, err)
	require.Equal(t, 42, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ListRegisteredUserIDsByEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("groups members by event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows([]string{"event_id", "user_id"}).
			AddRow("event-uuid-1", "user-uuid-1").
			AddRow("event-uuid-1", "user-uuid-2").
			AddRow("event-uuid-2", "user-uuid-1")
		mock.ExpectQuery(`SELECT event_id, user_id`).
			WithArgs(pq.Array([]string{"event-uuid-1", "event-uuid-2"})).
			WillReturnRows(rows)

		repo := NewRegistrationRepository(db)
		members, err := repo.ListRegisteredUserIDsByEvents(ctx, []string{"event-uuid-1", "event-uuid-2"})
		require.NoError(t, err)
		require.Equal(t, map[string][]string{
			"event-uuid-1": {"user-uuid-1", "user-uuid-2"},
			"event-uuid-2": {"user-uuid-1"},
		}, members)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no events skips the query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewRegistrationRepository(db)
		members, err := repo.ListRegisteredUserIDsByEvents(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, members)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_SetAttended(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE registrations SET attended`).
		WithArgs(true, now, "reg-uuid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRegistrationRepository(db)
	require.NoError(t, repo.SetAttended(ctx, "reg-uuid-1", true, now))
	require.NoError(t, mock.ExpectationsWereMet())
}
