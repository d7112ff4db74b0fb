package model

import (
	"github.com/lib/pq"
)

// User represents a notification subscriber.
// A user with SMS enabled but no phone number is silently ineligible
// for SMS; this is not an error.
type User struct {
	Base
	FirstName    string         `json:"first_name" db:"first_name"`
	LastName     string         `json:"last_name" db:"last_name"`
	Email        string         `json:"email" db:"email"`
	Phone        *string        `json:"phone,omitempty" db:"phone"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	EmailEnabled bool           `json:"email_enabled" db:"email_enabled"`
	SMSEnabled   bool           `json:"sms_enabled" db:"sms_enabled"`
	PushEnabled  bool           `json:"push_enabled" db:"push_enabled"`
	Preferences  pq.StringArray `json:"preferences" db:"preferences"`
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	FirstName    string   `json:"first_name" binding:"required"`
	LastName     string   `json:"last_name" binding:"required"`
	Email        string   `json:"email" binding:"required,email"`
	Phone        *string  `json:"phone" binding:"omitempty,e164"`
	IsActive     *bool    `json:"is_active"`
	EmailEnabled *bool    `json:"email_enabled"`
	SMSEnabled   *bool    `json:"sms_enabled"`
	PushEnabled  *bool    `json:"push_enabled"`
	Preferences  []string `json:"preferences"`
}

// UpdateUserRequest represents user update parameters
type UpdateUserRequest struct {
	FirstName    string   `json:"first_name" binding:"required"`
	LastName     string   `json:"last_name" binding:"required"`
	Email        string   `json:"email" binding:"required,email"`
	Phone        *string  `json:"phone" binding:"omitempty,e164"`
	IsActive     bool     `json:"is_active"`
	EmailEnabled bool     `json:"email_enabled"`
	SMSEnabled   bool     `json:"sms_enabled"`
	PushEnabled  bool     `json:"push_enabled"`
	Preferences  []string `json:"preferences"`
}
