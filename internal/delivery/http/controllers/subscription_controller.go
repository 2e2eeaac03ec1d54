package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// uuidRegexSubscription matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegexSubscription = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type SubscriptionController struct {
	Logger  *slog.Logger
	Service domain.SubscriptionService
}

func NewSubscriptionController(logger *slog.Logger, svc domain.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		Logger:  logger,
		Service: svc,
	}
}

// Follow godoc
// @Summary Follow an event host
// @Description Subscribes the authenticated user to the specified host. The target must hold the host role. Idempotent.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param hostID path string true "Host user ID (UUID)"
// @Success 204 "No content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (self-follow or not a host)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /hosts/{hostID}/subscription [put]
func (c *SubscriptionController) Follow(w http.ResponseWriter, r *http.Request) {
	hostID := r.PathValue("hostID")
	if hostID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing hostID")
		return
	}
	if !uuidRegexSubscription.MatchString(hostID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid hostID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Follow(r.Context(), userID, hostID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "host not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unfollow godoc
// @Summary Unfollow an event host
// @Description Removes the authenticated user's subscription to the host. Removing a non-existent subscription is a no-op.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param hostID path string true "Host user ID (UUID)"
// @Success 204 "No content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /hosts/{hostID}/subscription [delete]
func (c *SubscriptionController) Unfollow(w http.ResponseWriter, r *http.Request) {
	hostID := r.PathValue("hostID")
	if hostID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing hostID")
		return
	}
	if !uuidRegexSubscription.MatchString(hostID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid hostID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Unfollow(r.Context(), userID, hostID); err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFollowedSuccessResponse is the success response envelope for GET /me/subscriptions (200).
type ListFollowedSuccessResponse struct {
	Data  []*domain.PublicProfile `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// ListFollowed godoc
// @Summary List hosts the current user follows
// @Description Returns the public profiles of the hosts the authenticated user is subscribed to.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListFollowedSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/subscriptions [get]
func (c *SubscriptionController) ListFollowed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	hosts, err := c.Service.ListFollowed(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	if hosts == nil {
		hosts = []*domain.PublicProfile{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, hosts)
}
