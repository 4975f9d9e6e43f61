// Package models holds the server-side data model: users, campaigns, and
// reviews as stored in PostgreSQL.
package models

import "time"

// Role is the authorization level of a user. Only two values exist.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an identity record. PasswordHash never leaves the repository and
// service layers; the HTTP layer serializes users through its own DTOs.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
