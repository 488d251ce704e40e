package repositories

import (
	"context"
	"time"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	// FindUserByID retrieves a specific user by their unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their email address (login lookup).
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUsers retrieves a paginated list of non-deleted users.
	FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)

	// FindUsersByIDs retrieves users for the given ids, keyed by user id.
	// Missing ids are simply absent from the result.
	FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser updates mutable user fields (name, default currency).
	UpdateUser(ctx context.Context, user domain.User) error

	// MarkUserDeleted soft-deletes a user.
	MarkUserDeleted(ctx context.Context, userID string, deletedBy string, now time.Time) error
}

// UserRepository combines read and write operations for users.
type UserRepository interface {
	UserReader
	UserWriter
}
