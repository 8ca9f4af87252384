package service

import (
	"errors"
	"fmt"
)

// Errors returned by the services. Handlers map them to HTTP statuses.
var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation error")
	// ErrPasswordTooLong is an ErrValidation for passwords bcrypt cannot hash.
	ErrPasswordTooLong = fmt.Errorf("%w: password longer than %d bytes", ErrValidation, maxPasswordBytes)
	// ErrDuplicateIdentity indicates the email is already registered.
	ErrDuplicateIdentity = errors.New("email already exists")
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrStorage wraps persistence failures; details stay server-side.
	ErrStorage = errors.New("storage error")
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72
