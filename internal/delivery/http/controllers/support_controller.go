package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

type SupportController struct {
	Logger  *slog.Logger
	Service domain.ChatbotService
}

func NewSupportController(logger *slog.Logger, svc domain.ChatbotService) *SupportController {
	return &SupportController{
		Logger:  logger,
		Service: svc,
	}
}

// AskRequest is the request body for POST /support/chat.
type AskRequest struct {
	Message string `json:"message"`
}

// Validate implements helpers.Validator.
func (r *AskRequest) Validate() []string {
	r.Message = strings.TrimSpace(r.Message)
	if r.Message == "" {
		return []string{"message is required"}
	}
	if len(r.Message) > 2000 {
		return []string{"message must be at most 2000 characters"}
	}
	return nil
}

// AskSuccessResponse is the success response envelope for POST /support/chat (200).
type AskSuccessResponse struct {
	Data  *domain.ChatReply `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Ask godoc
// @Summary Ask the support bot a question
// @Description Answers a support question. Known topics are answered by rules; other questions are forwarded to a language model, with a canned fallback when the model is unavailable.
// @Tags support
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.AskRequest true "Question"
// @Success 200 {object} controllers.AskSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /support/chat [post]
func (c *SupportController) Ask(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req AskRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reply, err := c.Service.Answer(r.Context(), req.Message)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, reply)
}
