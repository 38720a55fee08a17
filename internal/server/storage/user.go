package storage

import (
	"context"

	"github.com/iudanet/tasklist/internal/models"
)

// UserStorage defines the interface for account persistence.
type UserStorage interface {
	// CreateUser inserts a new account. The uniqueness check and the insert
	// are a single atomic operation at the storage layer; a concurrent
	// insert for the same email fails with ErrEmailExists.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves an account by its (lower-cased) email.
	// Returns ErrUserNotFound if no such account exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves an account by ID.
	// Returns ErrUserNotFound if no such account exists.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateUser persists changes to an existing account.
	// Returns ErrUserNotFound if no such account exists.
	UpdateUser(ctx context.Context, user *models.User) error
}
