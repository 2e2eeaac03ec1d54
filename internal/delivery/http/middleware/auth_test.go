package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	userID string
	err    error
}

func (f *fakeTokenVerifier) Verify(_ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.userID, nil
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name          string
		authHeader    string
		verifier      domain.TokenVerifier
		wantStatus    int
		wantBodyCode  string
		nextCalled    bool
		wantContextID string
	}{
		{
			name:          "valid token sets context and calls next",
			authHeader:    "Bearer valid-token",
			verifier:      &fakeTokenVerifier{userID: "user-123"},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "user-123",
		},
		{
			name:         "missing authorization header",
			authHeader:   "",
			verifier:     &fakeTokenVerifier{userID: "user-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "no Bearer prefix",
			authHeader:   "Basic abc",
			verifier:     &fakeTokenVerifier{userID: "user-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			verifier:     &fakeTokenVerifier{userID: "user-123"},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "verifier rejects token",
			authHeader:   "Bearer bad-token",
			verifier:     &fakeTokenVerifier{err: errors.New("invalid or expired token")},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var capturedUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				if id, ok := UserIDFromContext(r.Context()); ok {
					capturedUserID = id
				}
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireAuth(tt.verifier, logger)(next)

			req := httptest.NewRequest(http.MethodGet, "http://test/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled && tt.wantContextID != "" {
				assert.Equal(t, tt.wantContextID, capturedUserID, "user ID in context")
			}
			if tt.wantStatus != http.StatusOK && tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

// fakeRoleRepository implements domain.RoleRepository for tests.
type fakeRoleRepository struct {
	roles []*domain.Role
	err   error
}

func (f *fakeRoleRepository) GetByCode(_ context.Context, code string) (*domain.Role, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepository) ListByUserID(_ context.Context, _ string) ([]*domain.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roles, nil
}

func TestRequireRole(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name          string
		contextUserID string
		roleRepo      *fakeRoleRepository
		wantStatus    int
		nextCalled    bool
	}{
		{
			name:          "user holds the role",
			contextUserID: "user-123",
			roleRepo:      &fakeRoleRepository{roles: []*domain.Role{{ID: "r1", Code: domain.RoleHost}}},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
		},
		{
			name:          "user lacks the role",
			contextUserID: "user-123",
			roleRepo:      &fakeRoleRepository{roles: []*domain.Role{{ID: "r2", Code: domain.RoleStudent}}},
			wantStatus:    http.StatusForbidden,
		},
		{
			name:       "no user in context",
			roleRepo:   &fakeRoleRepository{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:          "role lookup fails",
			contextUserID: "user-123",
			roleRepo:      &fakeRoleRepository{err: errors.New("db down")},
			wantStatus:    http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})
			handler := RequireRole(tt.roleRepo, domain.RoleHost, logger)(next)

			req := httptest.NewRequest(http.MethodPost, "http://test/events", nil)
			if tt.contextUserID != "" {
				req = req.WithContext(SetUserID(req.Context(), tt.contextUserID))
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
		})
	}
}

func TestHasRole(t *testing.T) {
	roles := []*domain.Role{{Code: domain.RoleStudent}, {Code: domain.RoleAdmin}}
	assert.True(t, HasRole(roles, domain.RoleAdmin))
	assert.False(t, HasRole(roles, domain.RoleHost))
	assert.False(t, HasRole(nil, domain.RoleAdmin))
}
