package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hongminglow/brewerybook/internal/apperror"
	"github.com/hongminglow/brewerybook/internal/models"
	"github.com/hongminglow/brewerybook/internal/storage"
)

const bearerScheme = "Bearer"

// Identity is the user behind a verified bearer token, valid for one request.
type Identity struct {
	User      models.User
	ExpiresAt time.Time
}

// Verifier checks a token and returns its claims.
type Verifier interface {
	Verify(token string) (TokenClaims, error)
}

// UserFinder resolves a token subject to a stored user.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// Gate turns the Authorization header of a request into an Identity.
type Gate struct {
	tokens Verifier
	users  UserFinder
}

// NewGate constructs a Gate.
func NewGate(tokens Verifier, users UserFinder) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate runs the header, scheme, token and subject checks in order.
// Every failure is an *apperror.AppError of kind Auth, except store faults,
// which are Internal.
func (g *Gate) Authenticate(r *http.Request) (Identity, error) {
	scheme, token, ok := splitAuthorization(r.Header.Get("Authorization"))
	if !ok {
		return Identity{}, apperror.NewAuthError(apperror.MissingCredential, "Authorization token not provided", nil)
	}
	if !strings.EqualFold(scheme, bearerScheme) {
		return Identity{}, apperror.NewAuthError(apperror.UnsupportedScheme, "Invalid token prefix", nil)
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, ErrExpired) {
			return Identity{}, apperror.NewAuthError(apperror.TokenExpired, "Your token has expired", err)
		}
		return Identity{}, apperror.NewAuthError(apperror.InvalidToken, "Your token is invalid", err)
	}

	user, err := g.users.FindByID(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Identity{}, apperror.NewAuthError(apperror.UnknownSubject, "User not found", err)
		}
		return Identity{}, apperror.NewInternalError("An unexpected error occurred", err)
	}
	return Identity{User: user, ExpiresAt: claims.ExpiresAt}, nil
}

// splitAuthorization splits "<scheme> <value>". A header without a space or
// with an empty value has no usable credential.
func splitAuthorization(header string) (scheme, value string, ok bool) {
	header = strings.TrimSpace(header)
	scheme, value, found := strings.Cut(header, " ")
	if !found {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if scheme == "" || value == "" {
		return "", "", false
	}
	return scheme, value, true
}
