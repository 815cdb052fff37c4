package errors

import (
	"errors"
	"fmt"
)

// Common error types for the session core
var (
	// Token errors
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrNoRefreshToken      = errors.New("no refresh token available")

	// Session errors
	ErrSessionExpired = errors.New("session expired")
	ErrNoSession      = errors.New("no session available")

	// Bridge errors
	ErrInvalidPayload = errors.New("invalid payload")
	ErrMissingTokens  = errors.New("missing tokens")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
