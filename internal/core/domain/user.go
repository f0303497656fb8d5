package domain

import (
	"errors"
	"time"
)

// Role determines deal visibility and mutation rights.
type Role string

const (
	RoleClient     Role = "client"
	RoleSpecialist Role = "specialist"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the closed role set. Unknown roles are
// rejected at registration, never persisted.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleSpecialist, RoleAdmin:
		return true
	}
	return false
}

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("login already taken")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRole = errors.New("invalid role")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrTokenInvalid = errors.New("invalid token")

// User models an authenticated actor in the system.
// Login and Role are immutable through profile updates.
type User struct {
	ID           int64     `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	LastName     string    `json:"lastname"`
	FirstName    string    `json:"firstname"`
	MiddleName   string    `json:"middlename"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// Caller is the authenticated identity recovered from a verified token.
// It is produced once by the auth middleware and handed to every handler.
type Caller struct {
	ID    int64
	Login string
	Role  Role
}

// Profile holds the self-service editable user fields. Login and role never
// travel through this struct.
type Profile struct {
	LastName   string
	FirstName  string
	MiddleName string
	Email      string
}
