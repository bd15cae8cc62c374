// Package apperror defines the application's error taxonomy and how each
// kind surfaces over HTTP. Handlers convert every error into an AppError at
// the request boundary; the Message is user-facing, Err is for logs only.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of an application error.
type Kind int

const (
	// Internal is an unexpected fault. Its message never carries internals.
	Internal Kind = iota
	// Validation covers missing or malformed request fields.
	Validation
	// DuplicateUsername means the username is already registered.
	DuplicateUsername
	// InvalidCredentials covers both an unknown username and a wrong password.
	InvalidCredentials
	// Auth is a rejected bearer credential; Reason says which check failed.
	Auth
	// UpstreamUnavailable means the directory service could not be used.
	UpstreamUnavailable
)

// Reason is the sub-kind of an Auth error.
type Reason string

const (
	MissingCredential Reason = "missing_credential"
	UnsupportedScheme Reason = "unsupported_scheme"
	InvalidToken      Reason = "invalid_token"
	TokenExpired      Reason = "token_expired"
	UnknownSubject    Reason = "unknown_subject"
)

// AppError is an error with a kind, a user-facing message and an optional cause.
type AppError struct {
	Kind    Kind
	Reason  Reason
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case Validation, DuplicateUsername, InvalidCredentials:
		return http.StatusBadRequest
	case Auth:
		return http.StatusUnauthorized
	case UpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code is the machine-readable identifier written next to the message.
func (e *AppError) Code() string {
	switch e.Kind {
	case Validation:
		return "validation_error"
	case DuplicateUsername:
		return "duplicate_username"
	case InvalidCredentials:
		return "invalid_credentials"
	case Auth:
		if e.Reason != "" {
			return string(e.Reason)
		}
		return "unauthorized"
	case UpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "internal_error"
	}
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NewValidationError(message string, err error) *AppError {
	return New(Validation, message, err)
}

func NewDuplicateUsernameError(message string, err error) *AppError {
	return New(DuplicateUsername, message, err)
}

func NewInvalidCredentialsError(message string, err error) *AppError {
	return New(InvalidCredentials, message, err)
}

func NewAuthError(reason Reason, message string, err error) *AppError {
	return &AppError{Kind: Auth, Reason: reason, Message: message, Err: err}
}

func NewUpstreamUnavailableError(message string, err error) *AppError {
	return New(UpstreamUnavailable, message, err)
}

func NewInternalError(message string, err error) *AppError {
	return New(Internal, message, err)
}

// FromError finds an AppError in err's chain, or wraps err as Internal with a
// generic message.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("An unexpected error occurred", err)
}

// IsKind reports whether err carries an AppError of kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// AuthReason returns the Reason of an Auth error in err's chain.
func AuthReason(err error) (Reason, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind == Auth {
		return appErr.Reason, true
	}
	return "", false
}
