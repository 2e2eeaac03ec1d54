package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"campusevents/config"
	"campusevents/internal/adapters/auth"
	"campusevents/internal/adapters/email"
	"campusevents/internal/adapters/llm"
	"campusevents/internal/adapters/payments"
	"campusevents/internal/adapters/pdf"
	deliveryhttp "campusevents/internal/delivery/http"
	"campusevents/internal/delivery/http/controllers"
	"campusevents/internal/delivery/http/middleware"
	"campusevents/internal/domain"
	"campusevents/internal/repository/postgres"
	"campusevents/internal/services"
)

// @title Campus Events API
// @version 1.0
// @description Student events platform: events, registrations, connections, and connection suggestions.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}
	cancel()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	connRepo := postgres.NewConnectionRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)
	bookmarkRepo := postgres.NewBookmarkRepository(db)
	subRepo := postgres.NewSubscriptionRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	// Adapters
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.SESAccessKeyID,
			SecretAccessKey: cfg.Email.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	certRenderer := pdf.NewCertificateRenderer()
	checkoutProvider := payments.NewStripeProvider(payments.Config{
		SecretKey:  cfg.Payment.StripeSecretKey,
		SuccessURL: cfg.Payment.SuccessURL,
		CancelURL:  cfg.Payment.CancelURL,
	})
	webhookVerifier := payments.NewStripeWebhookVerifier(cfg.Payment.StripeWebhookSecret)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	authService := services.NewAuthService(userRepo, roleRepo, hasher, tokenIssuer, cfg.JWTExpiry, emailService, logger)
	userService := services.NewUserService(userRepo)
	connService := services.NewConnectionService(connRepo, userRepo)
	suggestionService := services.NewSuggestionService(userRepo, connRepo, regRepo, domain.DefaultScoreWeights())
	eventService := services.NewEventService(eventRepo)
	attendeeService := services.NewAttendeeService(eventRepo, regRepo, orderRepo, userRepo, emailService, logger)
	bookmarkService := services.NewBookmarkService(bookmarkRepo, eventRepo)
	subService := services.NewSubscriptionService(subRepo, userRepo, roleRepo)
	gamificationService := services.NewGamificationService(regRepo, reviewRepo)
	reviewService := services.NewReviewService(reviewRepo, regRepo, eventRepo)
	certService := services.NewCertificateService(regRepo, eventRepo, userRepo, certRenderer, cfg.PublicBaseURL)
	paymentService := services.NewPaymentService(orderRepo, eventRepo, checkoutProvider, cfg.Payment.Currency, logger)

	var llmClient domain.LLMClient
	if cfg.SupportBot.BaseURL != "" {
		llmClient = llm.NewHTTPClient(llm.Config{
			BaseURL: cfg.SupportBot.BaseURL,
			APIKey:  cfg.SupportBot.APIKey,
			Model:   cfg.SupportBot.Model,
		})
	}
	chatbotService := services.NewChatbotService(llmClient, logger)

	// HTTP delivery
	mux := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:        logger,
		TokenVerifier: tokenVerifier,
		RoleRepo:      roleRepo,
		Auth:          controllers.NewAuthController(logger, authService),
		Users:         controllers.NewUserController(logger, userService, gamificationService),
		Connections:   controllers.NewConnectionController(logger, connService, suggestionService),
		Events:        controllers.NewEventController(logger, eventService, roleRepo),
		Attendees:     controllers.NewAttendeeController(logger, attendeeService, certService),
		Bookmarks:     controllers.NewBookmarkController(logger, bookmarkService),
		Subscriptions: controllers.NewSubscriptionController(logger, subService),
		Reviews:       controllers.NewReviewController(logger, reviewService),
		Payments:      controllers.NewPaymentController(logger, paymentService, webhookVerifier),
		Support:       controllers.NewSupportController(logger, chatbotService),
	})

	handler := middleware.CORS(cfg.CORSAllowedOrigins,
		middleware.Metrics(
			middleware.LoggingMiddleware(logger, mux)))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	logger.Info("server stopped")
}
