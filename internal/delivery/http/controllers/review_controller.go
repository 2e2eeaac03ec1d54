package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// uuidRegexReview matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegexReview = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type ReviewController struct {
	Logger  *slog.Logger
	Service domain.ReviewService
}

func NewReviewController(logger *slog.Logger, svc domain.ReviewService) *ReviewController {
	return &ReviewController{
		Logger:  logger,
		Service: svc,
	}
}

// SubmitReviewRequest is the request body for POST /events/{eventID}/reviews.
type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate implements helpers.Validator.
func (r *SubmitReviewRequest) Validate() []string {
	var errs []string
	if r.Rating < 1 || r.Rating > 5 {
		errs = append(errs, "rating must be between 1 and 5")
	}
	r.Comment = strings.TrimSpace(r.Comment)
	return errs
}

// SubmitReviewSuccessResponse is the success response envelope for POST /events/{eventID}/reviews (201).
type SubmitReviewSuccessResponse struct {
	Data  *domain.Review    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SubmitReview godoc
// @Summary Review an event
// @Description Records a rating and optional comment for the event. The user must hold a registration and may review an event once.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body controllers.SubmitReviewRequest true "Rating (1-5) and optional comment"
// @Success 201 {object} controllers.SubmitReviewSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not registered)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already reviewed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/reviews [post]
func (c *ReviewController) SubmitReview(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if !uuidRegexReview.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req SubmitReviewRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	review, err := c.Service.Submit(r.Context(), eventID, userID, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only registered users may review")
			return
		}
		if errors.Is(err, domain.ErrAlreadyReviewed) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event already reviewed")
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

	helpers.WriteJSONSuccess(w, http.StatusCreated, review)
}

// ListReviewsSuccessResponse is the success response envelope for GET /events/{eventID}/reviews (200).
type ListReviewsSuccessResponse struct {
	Data  *domain.EventReviews `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ListReviews godoc
// @Summary List an event's reviews
// @Description Returns the event's reviews and the average rating.
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListReviewsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/reviews [get]
func (c *ReviewController) ListReviews(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if !uuidRegexReview.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	reviews, err := c.Service.ListForEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, reviews)
}
