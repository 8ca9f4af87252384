// Package service provides business-logic services for authentication and vitals,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/models"
	"github.com/atinyakov/VitalsKeeper/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the persistence operations
// required by the authentication service.
type UserRepository interface {
	// Create stores a new user; returns repository.ErrUserAlreadyExists on a taken email.
	Create(ctx context.Context, name, email string, passwordHash []byte) (*models.User, error)
	// FindByEmail returns repository.ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// AuthService registers users and exchanges credentials for session tokens.
type AuthService struct {
	repo   UserRepository
	issuer TokenIssuer
	cost   int
	// dummyHash is compared against when the email is unknown so that
	// both failure paths cost one bcrypt comparison.
	dummyHash []byte
}

// NewAuthService constructs an AuthService using the provided repository and token issuer.
func NewAuthService(repo UserRepository, issuer TokenIssuer) *AuthService {
	return newAuthService(repo, issuer, bcrypt.DefaultCost)
}

func newAuthService(repo UserRepository, issuer TokenIssuer, cost int) *AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("vitalskeeper-dummy-password"), cost)
	if err != nil {
		panic(fmt.Sprintf("bcrypt dummy hash: %v", err))
	}
	return &AuthService{repo: repo, issuer: issuer, cost: cost, dummyHash: dummy}
}

// NormalizeEmail trims and lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a bcrypt-hashed password.
// Returns ErrValidation for blank fields and ErrDuplicateIdentity for a taken email.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (models.UserSummary, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return models.UserSummary{}, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	if len(password) > maxPasswordBytes {
		return models.UserSummary{}, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.UserSummary{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return models.UserSummary{}, ErrDuplicateIdentity
		}
		return models.UserSummary{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return user.Summary(), nil
}

// Login verifies the credentials and issues a session token.
// An unknown email and a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.UserSummary, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", models.UserSummary{}, ErrInvalidCredentials
		}
		return "", models.UserSummary{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", models.UserSummary{}, ErrInvalidCredentials
	}

	signed, _, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", models.UserSummary{}, fmt.Errorf("issue token: %w", err)
	}
	return signed, user.Summary(), nil
}

// SeedDefaultUser registers the given user unless the email is already taken.
// It reports whether a user was created.
func (s *AuthService) SeedDefaultUser(ctx context.Context, name, email, password string) (bool, error) {
	_, err := s.Register(ctx, name, email, password)
	switch {
	case errors.Is(err, ErrDuplicateIdentity):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}
