package services

import (
	"errors"
	"fmt"
)

// Shared errors used across services and by the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidStatusTransition = fmt.Errorf("%w: ticket status transition not allowed", ErrValidationFailed)
	ErrVerificationExpired     = errors.New("verification code has expired, please register again")
	ErrInvalidCode             = errors.New("invalid verification code")
	ErrInvalidOrExpiredToken   = errors.New("reset link is invalid or has expired")
	ErrAlreadyCheckedIn        = errors.New("already checked in today")

	// Conflicts
	ErrConflict        = errors.New("resource already exists")
	ErrEmailTaken      = fmt.Errorf("%w: email is already registered", ErrConflict)
	ErrPlayerNameTaken = fmt.Errorf("%w: player name or email is already registered", ErrConflict)

	// Authentication and authorization
	ErrUnauthenticated    = errors.New("authentication token required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("operation not allowed for the current user")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrVerificationNotFound = fmt.Errorf("%w: no pending verification for this email, please register again", ErrNotFound)
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, msg)
}
