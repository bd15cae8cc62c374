// Package accounts implements registration and login on top of the
// credential store, the password hasher and the token manager.
package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hongminglow/brewerybook/internal/apperror"
	"github.com/hongminglow/brewerybook/internal/auth"
	"github.com/hongminglow/brewerybook/internal/models"
	"github.com/hongminglow/brewerybook/internal/storage"
)

// Messages shown to callers. Unknown user and wrong password share one on purpose.
const (
	msgMissingFields      = "Please provide both username and password"
	msgUsernameTaken      = "Username already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgUnexpected         = "An unexpected error occurred"
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) bool
}

// Issuer mints bearer tokens.
type Issuer interface {
	Issue(subjectID string, ttl time.Duration) (string, error)
}

// Service handles account registration and login.
type Service struct {
	users  storage.UserStore
	hasher Hasher
	tokens Issuer
	ttl    time.Duration
}

// NewService constructs a Service issuing tokens that live for ttl.
func NewService(users storage.UserStore, hasher Hasher, tokens Issuer, ttl time.Duration) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens, ttl: ttl}
}

// Register creates a user with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, apperror.NewValidationError(msgMissingFields, nil)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return models.User{}, apperror.NewValidationError(msgPasswordTooLong, err)
		}
		return models.User{}, apperror.NewInternalError(msgUnexpected, err)
	}

	created, err := s.users.CreateUser(ctx, models.User{Username: username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, apperror.NewDuplicateUsernameError(msgUsernameTaken, err)
		}
		return models.User{}, apperror.NewInternalError(msgUnexpected, err)
	}
	return created, nil
}

// Login checks credentials and returns a signed token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", apperror.NewValidationError(msgMissingFields, nil)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperror.NewInvalidCredentialsError(msgInvalidCredentials, nil)
		}
		return "", apperror.NewInternalError(msgUnexpected, err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", apperror.NewInvalidCredentialsError(msgInvalidCredentials, nil)
	}

	token, err := s.tokens.Issue(user.ID, s.ttl)
	if err != nil {
		return "", apperror.NewInternalError(msgUnexpected, err)
	}
	return token, nil
}
