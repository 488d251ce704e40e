package models

import "time"

// User represents a user row.
// Includes email and password hash for authentication.
type User struct {
	UserID          string `json:"userID" db:"user_id"`
	Name            string `json:"name" db:"name"`
	Email           string `json:"email" db:"email"`
	PasswordHash    string `json:"-" db:"password_hash"`
	DefaultCurrency string `json:"defaultCurrency" db:"default_currency"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}
