// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/qrforge/qrforge/internal/auth"
	"github.com/qrforge/qrforge/internal/metrics"
	"github.com/qrforge/qrforge/internal/model"
	"github.com/qrforge/qrforge/internal/repository"
)

// Auth service errors.
var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrEmailTaken       = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong
	// password so a failed login never signals which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound = errors.New("user not found")
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService owns user identity: registration, password
// verification, and session token issuance.
type AuthService struct {
	repo     UserRepository
	tokens   *auth.TokenIssuer
	hashCost int
	metrics  metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserRepository, tokens *auth.TokenIssuer, hashCost int, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		hashCost: hashCost,
		metrics:  recorder,
	}
}

// Register creates a new user and issues a session token.
// Fails with ErrEmailTaken if the email is already claimed.
func (s *AuthService) Register(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if !emailRegex.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := auth.HashPassword(password, s.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, token, nil
}

// Login verifies credentials and issues a new session token.
// Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Burn a hash comparison so the miss takes about as long
			// as a wrong password.
			auth.BurnPassword(password)
			s.metrics.IncLoginFailed()
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		s.metrics.IncLoginFailed()
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// GetUserByID retrieves a user by ID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// normalizeEmail lowercases and trims an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
