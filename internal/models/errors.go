package models

import "errors"

// Sentinel errors shared by repositories, services and handlers.
// Wrap them with fmt.Errorf("...: %w", err) and test with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means the caller presented no token at all.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means a token was presented but could not be trusted.
	ErrForbidden = errors.New("invalid or expired token")
)
