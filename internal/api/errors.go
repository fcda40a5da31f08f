package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/taskly/taskly-api/internal/api/shared"
	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/service"
	"github.com/taskly/taskly-api/internal/service/auth"
	"github.com/taskly/taskly-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Unprocessable input
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrMalformedBody),
		errors.As(err, &validationErrs):
		return http.StatusUnprocessableEntity

	// The database rejected the row after validation passed
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors
	var domainErr *domain.ValidationError

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Not authenticated"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Could not validate credentials"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Incorrect username or password"

	case errors.Is(err, service.ErrForbidden):
		return "You don't have admin permission"

	case errors.Is(err, store.ErrTaskNotFound):
		return "There is no task found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, shared.ErrMalformedBody):
		return "Invalid request format"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.As(err, &domainErr):
		return fmt.Sprintf("Invalid %s: %s", domainErr.Field, domainErr.Message)
	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Invalid status: must be one of todo, in_progress, done"
	case errors.Is(err, domain.ErrEmptyUsername):
		return "Invalid username: required field"
	case errors.Is(err, domain.ErrInvalidEmail):
		return "Invalid email: invalid email format"
	case errors.Is(err, domain.ErrEmptyPassword):
		return "Invalid password: required field"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return "Invalid password: too long"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid id"
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err: status from
// MapErrorToStatusCode, body from GetSafeErrorMessage unless message is set.
// 401 responses carry a Bearer challenge.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
