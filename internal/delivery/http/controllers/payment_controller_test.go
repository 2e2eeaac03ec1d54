package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusevents/internal/delivery/http/helpers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePaymentService implements domain.PaymentService for handler tests.
type fakePaymentService struct {
	session *domain.CheckoutSession
	err     error

	handled []domain.ProviderEvent
}

func (f *fakePaymentService) CreateCheckout(ctx context.Context, eventID, userID string) (*domain.CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func (f *fakePaymentService) HandleProviderEvent(ctx context.Context, providerSessionID, outcome string) error {
	f.handled = append(f.handled, domain.ProviderEvent{SessionID: providerSessionID, Outcome: outcome})
	return f.err
}

// fakeWebhookVerifier implements domain.WebhookVerifier for handler tests.
type fakeWebhookVerifier struct {
	event *domain.ProviderEvent
	err   error

	payloads [][]byte
}

func (f *fakeWebhookVerifier) VerifyEvent(payload []byte, signature string) (*domain.ProviderEvent, error) {
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

const testEventUUID = "99999999-8888-7777-6666-555555555555"

func TestPaymentController_CreateCheckout(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	tests := []struct {
		name          string
		eventID       string
		contextUserID string
		fakeErr       error
		wantStatus    int
		wantBodyCode  string
	}{
		{
			name:          "success",
			eventID:       testEventUUID,
			contextUserID: "user-1",
			wantStatus:    http.StatusCreated,
		},
		{
			name:          "invalid event id",
			eventID:       "bogus",
			contextUserID: "user-1",
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:         "no user in context",
			eventID:      testEventUUID,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:          "event not found",
			eventID:       testEventUUID,
			contextUserID: "user-1",
			fakeErr:       domain.ErrNotFound,
			wantStatus:    http.StatusNotFound,
			wantBodyCode:  helpers.ErrCodeNotFound,
		},
		{
			name:          "free event",
			eventID:       testEventUUID,
			contextUserID: "user-1",
			fakeErr:       domain.ErrInvalidInput,
			wantStatus:    http.StatusBadRequest,
			wantBodyCode:  helpers.ErrCodeBadRequest,
		},
		{
			name:          "already paid",
			eventID:       testEventUUID,
			contextUserID: "user-1",
			fakeErr:       domain.ErrConflict,
			wantStatus:    http.StatusConflict,
			wantBodyCode:  helpers.ErrCodeConflict,
		},
		{
			name:          "service error",
			eventID:       testEventUUID,
			contextUserID: "user-1",
			fakeErr:       assert.AnError,
			wantStatus:    http.StatusInternalServerError,
			wantBodyCode:  helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePaymentService{
				session: &domain.CheckoutSession{SessionID: "cs_test_1", URL: "https://checkout.example/cs_test_1"},
				err:     tt.fakeErr,
			}
			ctrl := NewPaymentController(logger, fake, &fakeWebhookVerifier{})

			req := httptest.NewRequest(http.MethodPost, "http://test/events/"+tt.eventID+"/checkout", nil)
			req.SetPathValue("eventID", tt.eventID)
			if tt.contextUserID != "" {
				req = req.WithContext(middleware.SetUserID(req.Context(), tt.contextUserID))
			}
			rr := httptest.NewRecorder()

			ctrl.CreateCheckout(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope struct {
				Data  *domain.CheckoutSession `json:"data"`
				Error *helpers.APIError       `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				require.NotNil(t, envelope.Data)
				assert.Equal(t, "cs_test_1", envelope.Data.SessionID)
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
		})
	}
}

func TestPaymentController_ProviderWebhook(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("forged payload without a valid signature is rejected", func(t *testing.T) {
		svc := &fakePaymentService{}
		verifier := &fakeWebhookVerifier{err: domain.ErrInvalidInput}
		ctrl := NewPaymentController(logger, svc, verifier)

		body := `{"session_id":"cs_forged_123","outcome":"completed"}`
		req := httptest.NewRequest(http.MethodPost, "http://test/payments/webhook", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()

		ctrl.ProviderWebhook(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		var envelope helpers.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeBadRequest, envelope.Error.Code)
		assert.Empty(t, svc.handled, "order transition must not run for an unverified payload")
	})

	t.Run("verified completed session marks the order", func(t *testing.T) {
		svc := &fakePaymentService{}
		verifier := &fakeWebhookVerifier{event: &domain.ProviderEvent{SessionID: "cs_live_1", Outcome: "completed"}}
		ctrl := NewPaymentController(logger, svc, verifier)

		req := httptest.NewRequest(http.MethodPost, "http://test/payments/webhook", bytes.NewBufferString(`{}`))
		req.Header.Set("Stripe-Signature", "t=1,v1=abc")
		rr := httptest.NewRecorder()

		ctrl.ProviderWebhook(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		require.Len(t, svc.handled, 1)
		assert.Equal(t, "cs_live_1", svc.handled[0].SessionID)
		assert.Equal(t, "completed", svc.handled[0].Outcome)
	})

	t.Run("genuine event of an irrelevant type is acknowledged", func(t *testing.T) {
		svc := &fakePaymentService{}
		ctrl := NewPaymentController(logger, svc, &fakeWebhookVerifier{})

		req := httptest.NewRequest(http.MethodPost, "http://test/payments/webhook", bytes.NewBufferString(`{}`))
		rr := httptest.NewRecorder()

		ctrl.ProviderWebhook(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, svc.handled)
	})

	t.Run("unknown session maps to not found", func(t *testing.T) {
		svc := &fakePaymentService{err: domain.ErrNotFound}
		verifier := &fakeWebhookVerifier{event: &domain.ProviderEvent{SessionID: "cs_gone", Outcome: "expired"}}
		ctrl := NewPaymentController(logger, svc, verifier)

		req := httptest.NewRequest(http.MethodPost, "http://test/payments/webhook", bytes.NewBufferString(`{}`))
		rr := httptest.NewRecorder()

		ctrl.ProviderWebhook(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		var envelope helpers.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.NotNil(t, envelope.Error)
		assert.Equal(t, helpers.ErrCodeNotFound, envelope.Error.Code)
	})

	t.Run("service failure returns a generic message", func(t *testing.T) {
		svc := &fakePaymentService{err: assert.AnError}
		verifier := &fakeWebhookVerifier{event: &domain.ProviderEvent{SessionID: "cs_live_2", Outcome: "completed"}}
		ctrl := NewPaymentController(logger, svc, verifier)

		req := httptest.NewRequest(http.MethodPost, "http://test/payments/webhook", bytes.NewBufferString(`{}`))
		rr := httptest.NewRecorder()

		ctrl.ProviderWebhook(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
	})
}
