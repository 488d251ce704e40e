package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaab-app/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
	"github.com/hisaab-app/hisaab_backend/internal/utils"
)

// userService provides user directory and registration operations.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{
		userRepo: userRepo,
	}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new user with a hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	newUser := domain.User{
		UserID:          uuid.NewString(),
		Name:            req.Name,
		Email:           email,
		PasswordHash:    passwordHash,
		DefaultCurrency: req.DefaultCurrency,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "", // self registration
			LastUpdatedAt: now,
			LastUpdatedBy: "",
		},
	}
	newUser.CreatedBy = newUser.UserID
	newUser.LastUpdatedBy = newUser.UserID

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		s.LogError(ctx, err, "Failed to save new user", slog.String("email", email))
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.LogInfo(ctx, "User created", slog.String("new_user_id", newUser.UserID))
	return &newUser, nil
}

// GetUserByID retrieves a user by id.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email (login lookup).
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyCredentials checks an email/password pair and returns the matching
// user. A wrong password maps to ErrUnauthorized so callers cannot tell it
// apart from an unknown email.
func (s *userService) VerifyCredentials(ctx context.Context, email string, password string) (*domain.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("password mismatch for user %s: %w", user.UserID, apperrors.ErrUnauthorized)
	}
	return user, nil
}

// ListUsers retrieves a paginated user directory.
func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies the allowed updates to a user's own profile.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error) {
	if userID != updaterUserID {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.DefaultCurrency != nil {
		user.DefaultCurrency = *req.DefaultCurrency
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = updaterUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser soft-deletes a user.
func (s *userService) DeleteUser(ctx context.Context, userID string, deleterUserID string) error {
	if userID != deleterUserID {
		return apperrors.ErrForbidden
	}

	if err := s.userRepo.MarkUserDeleted(ctx, userID, deleterUserID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID))
	return nil
}
