package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// uuidRegexPayment matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegexPayment = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// webhookMaxBodyBytes bounds provider callback payloads.
const webhookMaxBodyBytes = 64 * 1024

type PaymentController struct {
	Logger   *slog.Logger
	Service  domain.PaymentService
	Verifier domain.WebhookVerifier
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService, verifier domain.WebhookVerifier) *PaymentController {
	return &PaymentController{
		Logger:   logger,
		Service:  svc,
		Verifier: verifier,
	}
}

// CreateCheckoutSuccessResponse is the success response envelope for POST /events/{eventID}/checkout (201).
type CreateCheckoutSuccessResponse struct {
	Data  *domain.CheckoutSession `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// CreateCheckout godoc
// @Summary Start checkout for a paid event
// @Description Creates a pending order and a provider-hosted checkout session for the event. Free events are rejected; an existing paid order for the pair is a conflict.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.CreateCheckoutSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (free event)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already paid)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/checkout [post]
func (c *PaymentController) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if !uuidRegexPayment.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	session, err := c.Service.CreateCheckout(r.Context(), eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrConflict) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event already paid")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, session)
}

// ProviderWebhook godoc
// @Summary Payment provider callback
// @Description Verifies the provider's signature over the raw payload, then resolves the checkout outcome to an order status transition. Paid is terminal: a later expired or failed callback for a paid order is ignored.
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Provider signature over the raw body"
// @Success 204 "No content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (bad signature or payload)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown session)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/webhook [post]
func (c *PaymentController) ProviderWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, webhookMaxBodyBytes))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unreadable payload")
		return
	}

	event, err := c.Verifier.VerifyEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		c.Logger.WarnContext(r.Context(), "webhook rejected", "path", r.URL.Path, "err", err)
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid webhook payload")
		return
	}
	if event == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := c.Service.HandleProviderEvent(r.Context(), event.SessionID, event.Outcome); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "order not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
