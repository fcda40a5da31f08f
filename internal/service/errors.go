package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrInvalidCredentials indicates an unknown username or a wrong password.
	// Both cases return the same error so callers cannot probe for usernames.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrForbidden indicates the caller is authenticated but lacks the
	// privilege for the operation.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("operation not permitted")
)
