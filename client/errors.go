package client

import (
	"fmt"

	apperrors "github.com/amirwmr/wp-front/internal/errors"
)

// ErrSessionExpired is terminal: a refresh was attempted and failed, or
// there was nothing to refresh with. Callers must treat it as "user is
// logged out", clear local identity state, and prompt re-authentication
// rather than retry.
var ErrSessionExpired = apperrors.ErrSessionExpired

// NetworkError wraps a transport-level failure (connection refused, DNS,
// timeout). The dispatcher never retries these.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx backend response other than a recoverable 401.
// Message is the most human-readable string the response body offered.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}
