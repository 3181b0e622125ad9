package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finance_tracker/internal/domain"

	"github.com/sirupsen/logrus"
)

// dummyHash is compared against when the email is unknown so that both
// login failure paths spend the same bcrypt time.
const dummyHash = "$2a$10$.IIxpSc3OElWXLV2Wj517eUGmZ64IQgBNQ4OcFbanW85CTrgrIDQy"

// UserStore is the identity store the service needs.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id uint) (*domain.User, error)
	Delete(ctx context.Context, id uint) error
}

// Service registers users, checks credentials and gates protected calls.
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	log    logrus.FieldLogger
}

// NewService wires the auth service. tokens may be nil for callers that only
// use CreateUser.
func NewService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, log logrus.FieldLogger) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens, log: log}
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser validates the fields, hashes the password and persists the user.
func (s *Service) CreateUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.Validation("name, email and password are required")
	}

	_, err := s.users.ByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.Conflict("email already registered")
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("auth: lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	u := &domain.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict("email already registered")
		}
		s.log.WithFields(logrus.Fields{
			"email": email,
			"error": err.Error(),
		}).Error("Failed to create user")
		return nil, domain.WriteFailure("failed to register user")
	}

	s.log.WithField("user_id", u.ID).Info("User registered")
	return u, nil
}

// Register creates the user and returns a token whose identity is the new user's ID.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, error) {
	u, err := s.CreateUser(ctx, name, email, password)
	if err != nil {
		return "", err
	}
	return s.issue(u.ID)
}

// Login checks credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", domain.Validation("email and password are required")
	}

	u, err := s.users.ByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		s.hasher.Verify(dummyHash, password)
		return "", domain.Unauthorized("invalid credentials")
	}
	if err != nil {
		return "", fmt.Errorf("auth: lookup email: %w", err)
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return "", domain.Unauthorized("invalid credentials")
	}
	return s.issue(u.ID)
}

// Authenticate verifies a bearer token and returns the caller's user ID.
func (s *Service) Authenticate(_ context.Context, token string) (uint, error) {
	if token == "" {
		return 0, domain.Unauthorized("missing token")
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return 0, domain.Unauthorized("invalid or expired token")
	}
	return userID, nil
}

// WhoAmI returns the caller's profile.
func (s *Service) WhoAmI(ctx context.Context, userID uint) (*domain.User, error) {
	u, err := s.users.ByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("auth: lookup user: %w", err)
	}
	return u, nil
}

// DeleteAccount removes the caller and every transaction they own.
func (s *Service) DeleteAccount(ctx context.Context, userID uint) error {
	err := s.users.Delete(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("user not found")
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to delete account")
		return domain.WriteFailure("failed to delete account")
	}
	s.log.WithField("user_id", userID).Info("Account deleted")
	return nil
}

func (s *Service) issue(userID uint) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("auth: issue token: %w", err)
	}
	return token, nil
}
