package auth

import (
	"context"
	"time"
)

// AuthProvider performs one authentication scheme.
type AuthProvider interface {
	Name() string
	Authenticate(ctx context.Context, credentials Credentials) (*AuthResult, error)
}

// Credentials carries the fields for all supported schemes; providers
// read what they need.
type Credentials struct {
	Username string
	Password string
	APIKey   string
}

type AuthResult struct {
	UserID   int64
	Username string
	Email    string
	Roles    []string
	Extra    map[string]any
}

// UserRepository is implemented by the business layer.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Status       string // active, inactive, banned
	Roles        []string
}

// PasswordAuthProvider authenticates with username/password and an
// optional attempt limiter.
type PasswordAuthProvider struct {
	passwords       *PasswordService
	users           UserRepository
	attempts        LoginAttemptStore
	maxAttempts     int
	lockoutDuration time.Duration
}

// NewPasswordAuthProvider builds the provider. attempts may be nil to
// disable lockout.
func NewPasswordAuthProvider(
	passwords *PasswordService,
	users UserRepository,
	attempts LoginAttemptStore,
	maxAttempts int,
	lockoutDuration time.Duration,
) *PasswordAuthProvider {
	return &PasswordAuthProvider{
		passwords:       passwords,
		users:           users,
		attempts:        attempts,
		maxAttempts:     maxAttempts,
		lockoutDuration: lockoutDuration,
	}
}

func (p *PasswordAuthProvider) Name() string {
	return "password"
}

func (p *PasswordAuthProvider) Authenticate(ctx context.Context, credentials Credentials) (*AuthResult, error) {
	username := credentials.Username

	if p.attempts != nil {
		locked, err := p.attempts.IsLocked(ctx, username, p.maxAttempts)
		if err == nil && locked {
			return nil, ErrTooManyAttempts
		}
	}

	user, err := p.users.FindByUsername(ctx, username)
	if err != nil {
		// Count unknown usernames too, to prevent enumeration.
		if p.attempts != nil {
			p.attempts.IncrementAttempts(ctx, username, p.lockoutDuration)
		}
		return nil, ErrInvalidCredentials
	}

	if !p.passwords.CheckPassword(credentials.Password, user.PasswordHash) {
		if p.attempts != nil {
			p.attempts.IncrementAttempts(ctx, username, p.lockoutDuration)
		}
		return nil, ErrInvalidCredentials
	}

	if user.Status != "active" {
		return nil, ErrAccountDisabled
	}

	if p.attempts != nil {
		p.attempts.ResetAttempts(ctx, username)
	}

	return &AuthResult{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.Roles,
	}, nil
}
