// Package user provides the User domain entity.
package user

import "time"

// Role represents the access level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents a registered account. The username doubles as the
// principal identity carried by authentication tokens.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // bcrypt, never exposed
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
