package domain

import "time"

// User represents a user of the application in the domain.
type User struct {
	UserID          string `json:"userID"` // Primary Key (e.g., UUID)
	Name            string `json:"name"`
	Email           string `json:"email"`
	PasswordHash    string `json:"-"`
	DefaultCurrency string `json:"defaultCurrency"` // ISO-4217 style code, e.g. "USD", "INR"
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
