package db

import (
	"context"
	"errors"

	"github.com/Nikolyamba/authsystem/models"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("db: user not found")

// ErrDuplicate is returned by CreateUser when the email is already taken.
var ErrDuplicate = errors.New("db: duplicate email")

// Database is the user storage consumed by the services. The core never
// mutates users beyond creating them; it references them by id.
type Database interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id models.UserID) (models.User, error)
	CreateUser(ctx context.Context, user CreateUser) (models.User, error)
}

// CreateUser carries the profile fields and the already-hashed password for
// a new user record.
type CreateUser struct {
	Name       string
	Surname    string
	Patronymic string
	Email      string
	PwdHash    string
}
