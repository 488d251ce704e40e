package dto

import (
	"time"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
)

// CreateUserRequest defines the data needed to register a user.
type CreateUserRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	DefaultCurrency string `json:"defaultCurrency" binding:"omitempty,currencycode"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name            *string `json:"name"`
	DefaultCurrency *string `json:"defaultCurrency" binding:"omitempty,currencycode"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// UserResponse is the API representation of a user.
type UserResponse struct {
	UserID          string    `json:"userID"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	DefaultCurrency string    `json:"defaultCurrency"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token and the logged-in user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ToUserResponse converts a domain.User to its API representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:          user.UserID,
		Name:            user.Name,
		Email:           user.Email,
		DefaultCurrency: user.DefaultCurrency,
		CreatedAt:       user.CreatedAt,
	}
}

// ToListUsersResponse converts a slice of domain.User to ListUsersResponse.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{
		Users: userResponses,
	}
}
