package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"campusevents/internal/domain"
)

// certSerialNamespace derives stable certificate serials: the same
// (event, user) pair always yields the same serial, so re-downloading a
// certificate never mints a new one.
var certSerialNamespace = uuid.MustParse("8a4bd2a6-5e24-4c53-9f6e-3d1a7b2c4e91")

type certificateService struct {
	regRepo   domain.RegistrationRepository
	eventRepo domain.EventRepository
	userRepo  domain.UserRepository
	renderer  domain.CertificateRenderer
	baseURL   string
}

// NewCertificateService creates a CertificateService. baseURL is the public
// base URL embedded in the certificate's verification QR code.
func NewCertificateService(
	regRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	renderer domain.CertificateRenderer,
	baseURL string,
) domain.CertificateService {
	return &certificateService{
		regRepo:   regRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		renderer:  renderer,
		baseURL:   baseURL,
	}
}

func (s *certificateService) Generate(ctx context.Context, eventID, userID string) ([]byte, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	reg, err := s.regRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotAttended
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if !reg.Attended {
		return nil, domain.ErrNotAttended
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	host, err := s.userRepo.GetByID(ctx, event.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("get host: %w", err)
	}

	serial := uuid.NewSHA1(certSerialNamespace, []byte(eventID+":"+userID)).String()
	data := &domain.CertificateData{
		Serial:       serial,
		AttendeeName: user.DisplayName(),
		EventName:    event.Name,
		EventDate:    event.StartTime,
		HostName:     host.DisplayName(),
		VerifyURL:    fmt.Sprintf("%s/certificates/%s", s.baseURL, serial),
	}
	pdf, err := s.renderer.Render(data)
	if err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return pdf, nil
}
