package services

import (
	"context"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
)

// UserSvcFacade defines operations for managing users.
type UserSvcFacade interface {
	// CreateUser registers a new user with a hashed password.
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByEmail retrieves a user by email (login lookup).
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// VerifyCredentials checks an email/password pair and returns the
	// matching user, or ErrUnauthorized when the password does not match.
	VerifyCredentials(ctx context.Context, email string, password string) (*domain.User, error)

	// ListUsers retrieves a paginated user directory.
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)

	// UpdateUser applies the allowed updates to a user's own profile.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error)

	// DeleteUser soft-deletes a user.
	DeleteUser(ctx context.Context, userID string, deleterUserID string) error
}
