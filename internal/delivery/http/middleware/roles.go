package middleware

import (
	"log/slog"
	"net/http"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/domain"
)

// RequireRole returns a wrapper that rejects requests whose authenticated
// user does not hold the given role. Must run after RequireAuth. Roles are
// looked up in the store rather than trusted from the token, so revocations
// take effect immediately.
func RequireRole(roleRepo domain.RoleRepository, roleCode string, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
				return
			}
			roles, err := roleRepo.ListByUserID(r.Context(), userID)
			if err != nil {
				logger.ErrorContext(r.Context(), "role lookup failed", "user_id", userID, "err", err)
				helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
				return
			}
			for _, role := range roles {
				if role.Code == roleCode {
					next(w, r)
					return
				}
			}
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "insufficient role")
		}
	}
}

// HasRole reports whether the user holds the given role. Controllers use it
// for owner-or-admin checks that RequireRole cannot express.
func HasRole(roles []*domain.Role, code string) bool {
	for _, r := range roles {
		if r.Code == code {
			return true
		}
	}
	return false
}
