package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Role codes known to the application.
const (
	RoleStudent = "student"
	RoleHost    = "host"
	RoleAdmin   = "admin"
)

// User represents a registered user (student, host, or admin).
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Name         string    `json:"name"`
	LastName     string    `json:"last_name"`
	Organization string    `json:"organization"`
	Interests    []string  `json:"interests"`
	ImageRef     string    `json:"image_ref"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicProfile is the client-safe projection of a user shown to other users.
// swagger:model PublicProfile
type PublicProfile struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Organization string `json:"organization"`
	ImageRef     string `json:"image_ref"`
}

// DisplayName joins the user's first and last name.
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.Name
	}
	return u.Name + " " + u.LastName
}

// Public returns the client-safe projection of the user.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:           u.ID,
		DisplayName:  u.DisplayName(),
		Organization: u.Organization,
		ImageRef:     u.ImageRef,
	}
}

// Role represents an application role (e.g. student, host, admin)
type Role struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
	SetActive(ctx context.Context, id string, active bool) error
	// ListActive returns all active users. Used by the suggestion engine to
	// build the candidate pool.
	ListActive(ctx context.Context) ([]*User, error)
	AssignRole(ctx context.Context, userID, roleID string) error
}

// RoleRepository defines the interface for role storage
type RoleRepository interface {
	GetByCode(ctx context.Context, code string) (*Role, error)
	ListByUserID(ctx context.Context, userID string) ([]*Role, error)
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name, lastName, role string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}

// UserService defines profile operations.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetPublicProfile(ctx context.Context, id string) (*PublicProfile, error)
	Update(ctx context.Context, user *User) error
	Deactivate(ctx context.Context, id string) error
	Reactivate(ctx context.Context, id string) error
}
