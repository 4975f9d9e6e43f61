// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Auth errors. ErrorInvalidCredentials covers both "no such user" and
	// "wrong password" so the two cases stay indistinguishable to clients.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorAdminRequired      = errors.New("admin access required")

	// ErrInvalidToken covers tampered, expired, and malformed tokens alike.
	ErrInvalidToken = errors.New("invalid token")
)
