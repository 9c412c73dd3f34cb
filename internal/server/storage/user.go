package storage

import (
	"context"

	"github.com/easygen/auth-service/internal/models"
)

// UserStorage defines interface for user record persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage
	// Returns ErrUserAlreadyExists if the normalized email is taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by normalized (lowercase) email
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// IncrementTokenVersion atomically bumps the user's token version by 1
	// and returns the new value. The increment is a single store-level
	// operation: two concurrent calls must both land.
	// Returns ErrUserNotFound if user doesn't exist
	IncrementTokenVersion(ctx context.Context, userID string) (int64, error)

	// Ping reports whether the storage is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying storage resources
	Close() error
}
