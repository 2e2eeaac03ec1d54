// Command seed fills a development database with fake users, connections,
// events, and registrations. Not for production use.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"campusevents/config"
	"campusevents/internal/adapters/auth"
	"campusevents/internal/adapters/email"
	"campusevents/internal/domain"
	"campusevents/internal/repository/postgres"
	"campusevents/internal/services"
)

const (
	seedUserCount  = 40
	seedHostCount  = 6
	seedEventCount = 25
	seedPassword   = "password123"
)

var seedOrganizations = []string{
	"Engineering Faculty",
	"Business School",
	"Arts & Humanities",
	"Medical School",
	"Computer Science Department",
}

var seedInterests = []string{
	"music", "coding", "football", "photography", "chess",
	"hiking", "theatre", "robotics", "debate", "cooking",
}

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if cfg.Environment == "production" {
		logger.Error("refusing to seed a production database")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	gofakeit.Seed(42)

	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	connRepo := postgres.NewConnectionRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	regRepo := postgres.NewRegistrationRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	mailer, err := email.NewMailer(email.MailerConfig{Provider: "noop"})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	authService := services.NewAuthService(userRepo, roleRepo, hasher, noopIssuer{}, time.Hour, emailService, logger)
	connService := services.NewConnectionService(connRepo, userRepo)
	eventService := services.NewEventService(eventRepo)

	// Users: the first seedHostCount sign up as hosts, the rest as students.
	users := make([]*domain.User, 0, seedUserCount)
	for i := 0; i < seedUserCount; i++ {
		role := domain.RoleStudent
		if i < seedHostCount {
			role = domain.RoleHost
		}
		email := fmt.Sprintf("seed%02d@campusevents.example", i)
		u, err := authService.SignUp(ctx, email, seedPassword, gofakeit.FirstName(), gofakeit.LastName(), role)
		if err != nil {
			logger.Error("seed user failed", "email", email, "err", err)
			os.Exit(1)
		}
		u.Organization = seedOrganizations[i%len(seedOrganizations)]
		n := 1 + gofakeit.Number(0, 3)
		interests := make([]string, 0, n)
		for len(interests) < n {
			in := seedInterests[gofakeit.Number(0, len(seedInterests)-1)]
			if !contains(interests, in) {
				interests = append(interests, in)
			}
		}
		u.Interests = interests
		u.UpdatedAt = time.Now()
		if err := userRepo.Update(ctx, u); err != nil {
			logger.Error("seed profile failed", "email", email, "err", err)
			os.Exit(1)
		}
		users = append(users, u)
	}
	logger.Info("seeded users", "count", len(users))

	// Connections: each user requests a few, accepting most.
	accepted := 0
	for _, u := range users {
		for j := 0; j < 3; j++ {
			target := users[gofakeit.Number(0, len(users)-1)]
			if target.ID == u.ID {
				continue
			}
			conn, err := connService.Request(ctx, u.ID, target.ID)
			if err != nil {
				continue // duplicate pair, fine
			}
			if gofakeit.Number(0, 9) < 8 {
				if _, err := connService.Accept(ctx, conn.ID, target.ID); err == nil {
					accepted++
				}
			}
		}
	}
	logger.Info("seeded connections", "accepted", accepted)

	// Events owned by the hosts, some paid, some capped.
	events := make([]*domain.Event, 0, seedEventCount)
	for i := 0; i < seedEventCount; i++ {
		owner := users[i%seedHostCount]
		ev := &domain.Event{
			OwnerID:     owner.ID,
			Name:        gofakeit.Sentence(3),
			Description: gofakeit.Paragraph(1, 3, 8, " "),
			Location:    gofakeit.City(),
			StartTime:   time.Now().AddDate(0, 0, gofakeit.Number(1, 60)),
			Capacity:    gofakeit.Number(0, 80),
			Tags:        []string{seedInterests[i%len(seedInterests)]},
		}
		if gofakeit.Number(0, 4) == 0 {
			ev.PriceCents = int64(gofakeit.Number(5, 50)) * 100
		}
		if err := eventService.Create(ctx, ev); err != nil {
			logger.Error("seed event failed", "err", err)
			os.Exit(1)
		}
		events = append(events, ev)
	}
	logger.Info("seeded events", "count", len(events))

	// Registrations for free events only; some marked attended.
	regs := 0
	for _, u := range users {
		for j := 0; j < 4; j++ {
			ev := events[gofakeit.Number(0, len(events)-1)]
			if ev.PriceCents > 0 {
				continue
			}
			now := time.Now()
			reg := &domain.Registration{
				EventID:   ev.ID,
				UserID:    u.ID,
				Status:    domain.RegistrationRegistered,
				Attended:  gofakeit.Number(0, 2) == 0,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := regRepo.Create(ctx, reg); err != nil {
				continue // already registered
			}
			regs++
		}
	}
	logger.Info("seeded registrations", "count", regs)
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}

// noopIssuer satisfies the token port; seeding never logs anyone in.
type noopIssuer struct{}

func (noopIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	return "", nil
}
