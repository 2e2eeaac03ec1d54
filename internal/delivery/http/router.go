package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Logger        *slog.Logger
	TokenVerifier domain.TokenVerifier
	RoleRepo      domain.RoleRepository

	Auth          *controllers.AuthController
	Users         *controllers.UserController
	Connections   *controllers.ConnectionController
	Events        *controllers.EventController
	Attendees     *controllers.AttendeeController
	Bookmarks     *controllers.BookmarkController
	Subscriptions *controllers.SubscriptionController
	Reviews       *controllers.ReviewController
	Payments      *controllers.PaymentController
	Support       *controllers.SupportController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(d.TokenVerifier, d.Logger)
	host := middleware.RequireRole(d.RoleRepo, domain.RoleHost, d.Logger)
	admin := middleware.RequireRole(d.RoleRepo, domain.RoleAdmin, d.Logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", d.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", d.Auth.Login)

	// Users
	mux.HandleFunc("GET /users/me", auth(d.Users.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(d.Users.UpdateMe))
	mux.HandleFunc("DELETE /users/me", auth(d.Users.DeactivateMe))
	mux.HandleFunc("GET /users/me/stats", auth(d.Users.GetMyStats))
	mux.HandleFunc("GET /users/{userID}", auth(d.Users.GetProfile))

	// Connections
	mux.HandleFunc("POST /connections", auth(d.Connections.RequestConnection))
	mux.HandleFunc("GET /connections", auth(d.Connections.ListConnections))
	mux.HandleFunc("GET /connections/suggestions", auth(d.Connections.ListSuggestions))
	mux.HandleFunc("POST /connections/{connectionID}/accept", auth(d.Connections.AcceptConnection))
	mux.HandleFunc("POST /connections/{connectionID}/decline", auth(d.Connections.DeclineConnection))
	mux.HandleFunc("DELETE /connections/{connectionID}", auth(d.Connections.RemoveConnection))

	// Events
	mux.HandleFunc("POST /events", auth(host(d.Events.CreateEvent)))
	mux.HandleFunc("GET /events", auth(d.Events.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(d.Events.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(d.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(d.Events.DeleteEvent))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/registrations", auth(d.Attendees.Register))
	mux.HandleFunc("DELETE /events/{eventID}/registrations", auth(d.Attendees.CancelRegistration))
	mux.HandleFunc("POST /events/{eventID}/attendance/{userID}", auth(d.Attendees.MarkAttended))
	mux.HandleFunc("GET /events/{eventID}/certificate", auth(d.Attendees.GetCertificate))
	mux.HandleFunc("GET /me/events", auth(d.Attendees.ListMyEvents))
	mux.HandleFunc("GET /me/calendar", auth(d.Attendees.GetCalendar))

	// Bookmarks
	mux.HandleFunc("PUT /events/{eventID}/bookmark", auth(d.Bookmarks.AddBookmark))
	mux.HandleFunc("DELETE /events/{eventID}/bookmark", auth(d.Bookmarks.RemoveBookmark))
	mux.HandleFunc("GET /me/bookmarks", auth(d.Bookmarks.ListBookmarks))

	// Subscriptions
	mux.HandleFunc("PUT /hosts/{hostID}/subscription", auth(d.Subscriptions.Follow))
	mux.HandleFunc("DELETE /hosts/{hostID}/subscription", auth(d.Subscriptions.Unfollow))
	mux.HandleFunc("GET /me/subscriptions", auth(d.Subscriptions.ListFollowed))

	// Reviews
	mux.HandleFunc("POST /events/{eventID}/reviews", auth(d.Reviews.SubmitReview))
	mux.HandleFunc("GET /events/{eventID}/reviews", auth(d.Reviews.ListReviews))

	// Payments
	mux.HandleFunc("POST /events/{eventID}/checkout", auth(d.Payments.CreateCheckout))
	mux.HandleFunc("POST /payments/webhook", d.Payments.ProviderWebhook)

	// Support bot
	mux.HandleFunc("POST /support/chat", auth(d.Support.Ask))

	// Admin
	mux.HandleFunc("POST /admin/users/{userID}/deactivate", auth(admin(d.Users.DeactivateUser)))
	mux.HandleFunc("POST /admin/users/{userID}/reactivate", auth(admin(d.Users.ReactivateUser)))

	// Operational endpoints
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
