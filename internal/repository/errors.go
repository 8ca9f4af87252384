package repository

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that a user with this email already exists.
	ErrUserAlreadyExists = errors.New("user already exists")
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"
