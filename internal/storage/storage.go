package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/brewerybook/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore captures the credential persistence operations. Usernames are
// unique; CreateUser rejects a collision with ErrAlreadyExists and never
// overwrites the existing record.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}
