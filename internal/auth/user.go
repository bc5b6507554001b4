// Package auth holds back-office accounts and their sessions.
package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("A user with this username already exists")
	ErrEmailTaken         = errors.New("A user with this email already exists")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrDeactivated        = errors.New("Account is deactivated")
	ErrUnauthenticated    = errors.New("authentication required")
)

// ValidationError carries the first failing rule, worded for the user.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }
