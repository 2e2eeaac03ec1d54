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

// uuidRegexConnection matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegexConnection = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type ConnectionController struct {
	Logger      *slog.Logger
	Service     domain.ConnectionService
	Suggestions domain.SuggestionService
}

func NewConnectionController(logger *slog.Logger, svc domain.ConnectionService, suggestions domain.SuggestionService) *ConnectionController {
	return &ConnectionController{
		Logger:      logger,
		Service:     svc,
		Suggestions: suggestions,
	}
}

// RequestConnectionRequest is the request body for POST /connections.
type RequestConnectionRequest struct {
	UserID string `json:"user_id"`
}

// Validate implements helpers.Validator.
func (r *RequestConnectionRequest) Validate() []string {
	if r.UserID == "" {
		return []string{"user_id is required"}
	}
	if !uuidRegexConnection.MatchString(r.UserID) {
		return []string{"user_id must be a UUID"}
	}
	return nil
}

// ConnectionSuccessResponse is the success response envelope for connection endpoints.
type ConnectionSuccessResponse struct {
	Data  *domain.Connection `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// RequestConnection godoc
// @Summary Send a connection request
// @Description Creates a pending connection from the authenticated user to the target user. A previously declined edge between the pair is revived to pending.
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.RequestConnectionRequest true "Target user"
// @Success 201 {object} controllers.ConnectionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (includes self-connection)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (target user)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (edge already exists)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /connections [post]
func (c *ConnectionController) RequestConnection(w http.ResponseWriter, r *http.Request) {
	var req RequestConnectionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	conn, err := c.Service.Request(r.Context(), userID, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrSelfConnection) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "cannot connect to yourself")
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		if errors.Is(err, domain.ErrAlreadyConnected) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "connection already exists")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, conn)
}

// respond handles accept/decline, which differ only in the service call.
func (c *ConnectionController) respond(w http.ResponseWriter, r *http.Request, action func(userID string) (*domain.Connection, error)) {
	connectionID := r.PathValue("connectionID")
	if connectionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing connectionID")
		return
	}
	if !uuidRegexConnection.MatchString(connectionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid connectionID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	conn, err := action(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "connection not found")
			return
		}
		if errors.Is(err, domain.ErrNotConnectionPeer) || errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
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

	helpers.WriteJSONSuccess(w, http.StatusOK, conn)
}

// AcceptConnection godoc
// @Summary Accept a pending connection request
// @Description Moves the connection to accepted. Only the addressee of a pending request may accept it.
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param connectionID path string true "Connection ID (UUID)"
// @Success 200 {object} controllers.ConnectionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the addressee)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /connections/{connectionID}/accept [post]
func (c *ConnectionController) AcceptConnection(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, func(userID string) (*domain.Connection, error) {
		return c.Service.Accept(r.Context(), r.PathValue("connectionID"), userID)
	})
}

// DeclineConnection godoc
// @Summary Decline a pending connection request
// @Description Moves the connection to declined. Only the addressee of a pending request may decline it.
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param connectionID path string true "Connection ID (UUID)"
// @Success 200 {object} controllers.ConnectionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not the addressee)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /connections/{connectionID}/decline [post]
func (c *ConnectionController) DeclineConnection(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, func(userID string) (*domain.Connection, error) {
		return c.Service.Decline(r.Context(), r.PathValue("connectionID"), userID)
	})
}

// RemoveConnection godoc
// @Summary Remove a connection
// @Description Removes an accepted connection, or cancels the caller's own pending request. Either participant may remove an accepted edge.
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param connectionID path string true "Connection ID (UUID)"
// @Success 204 "No content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /connections/{connectionID} [delete]
func (c *ConnectionController) RemoveConnection(w http.ResponseWriter, r *http.Request) {
	connectionID := r.PathValue("connectionID")
	if connectionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing connectionID")
		return
	}
	if !uuidRegexConnection.MatchString(connectionID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid connectionID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	if err := c.Service.Remove(r.Context(), connectionID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "connection not found")
			return
		}
		if errors.Is(err, domain.ErrNotConnectionPeer) || errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListConnectionsSuccessResponse is the success response envelope for GET /connections (200).
type ListConnectionsSuccessResponse struct {
	Data  []*domain.ConnectionWithPeer `json:"data"`
	Error *helpers.APIError            `json:"error"`
}

// ListConnections godoc
// @Summary List the current user's connections
// @Description Returns the authenticated user's connections with the peer's public profile. Filterable by status via the status query parameter (pending, accepted, declined); empty returns all.
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Param status query string false "Connection status filter"
// @Success 200 {object} controllers.ListConnectionsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /connections [get]
func (c *ConnectionController) ListConnections(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	status := r.URL.Query().Get("status")
	switch status {
	case "", domain.ConnectionPending, domain.ConnectionAccepted, domain.ConnectionDeclined:
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status")
		return
	}

	items, err := c.Service.List(r.Context(), userID, status)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	if items == nil {
		items = []*domain.ConnectionWithPeer{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// ListSuggestionsSuccessResponse is the success response envelope for GET /connections/suggestions (200).
type ListSuggestionsSuccessResponse struct {
	Data  []*domain.SuggestionCandidate `json:"data"`
	Error *helpers.APIError             `json:"error"`
}

// ListSuggestions godoc
// @Summary Get connection suggestions for the current user
// @Description Returns up to 20 candidate users ranked by affinity with the authenticated user (shared organization, mutual connections, shared interests, shared event activity). Users with no affinity are never suggested; an empty list is a valid result.
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListSuggestionsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /connections/suggestions [get]
func (c *ConnectionController) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	suggestions, err := c.Suggestions.SuggestionsFor(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, suggestions)
}
