package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"simonai/internal/models"
	"simonai/internal/store"
)

var (
	// ErrInvalidCredentials is returned when the email is unknown or the
	// password does not match. The two cases are deliberately not
	// distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned by SignUp when the email already has a
	// profile.
	ErrEmailTaken = errors.New("an account with this email already exists")
)

// Session identifies the signed-in user for the rest of the application.
type Session struct {
	UserID string
	Email  string
	Name   string
}

// Service handles account creation and sign-in against the profile store.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

func validateCredentials(email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address")
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

// SignUp creates a profile and returns a session for it.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.store.GetProfileByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing profile: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.Index(email, "@")]
	}

	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hashPassword(password),
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	return &Session{UserID: profile.ID, Email: profile.Email, Name: profile.Name}, nil
}

// SignIn verifies the password against the stored profile.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.store.GetProfileByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	hash := hashPassword(password)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(profile.PasswordHash)) != 1 {
		return nil, ErrInvalidCredentials
	}

	return &Session{UserID: profile.ID, Email: profile.Email, Name: profile.Name}, nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
