package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotAttended is returned when requesting a certificate for an event the
// user did not attend.
var ErrNotAttended = errors.New("event not attended")

// CertificateData is everything the renderer needs to compose a certificate.
type CertificateData struct {
	Serial        string
	AttendeeName  string
	EventName     string
	EventDate     time.Time
	HostName      string
	VerifyURL     string
}

// CertificateRenderer composes a certificate document (PDF) from data.
type CertificateRenderer interface {
	Render(data *CertificateData) ([]byte, error)
}

// CertificateService issues attendance certificates.
type CertificateService interface {
	// Generate returns the PDF bytes for the user's attendance at the event.
	// Fails with ErrNotAttended unless the registration is flagged attended.
	Generate(ctx context.Context, eventID, userID string) ([]byte, error)
}
