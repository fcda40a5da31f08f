package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/taskly/taskly-api/internal/api/shared"
	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/service/auth"
)

// claimsFromRequest returns the caller's claims placed in the context by the
// authentication middleware, or auth.ErrMissingToken.
func claimsFromRequest(r *http.Request) (*auth.Claims, error) {
	claims, ok := shared.GetClaims(r.Context())
	if !ok {
		return nil, auth.ErrMissingToken
	}
	return claims, nil
}

// getPathID extracts a positive integer id from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}
	return parseID(paramName, raw)
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer", domain.ErrInvalidID)
	}
	return id, nil
}

// queryBool parses a required boolean query parameter. Accepted spellings,
// case-insensitive: true/false, 1/0, t/f, yes/no, y/n, on/off.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(name)))
	switch raw {
	case "":
		return false, domain.NewValidationError(name, "is required", domain.ErrValidation)
	case "true", "1", "t", "yes", "y", "on":
		return true, nil
	case "false", "0", "f", "no", "n", "off":
		return false, nil
	default:
		return false, domain.NewValidationError(name, "must be a boolean", domain.ErrValidation)
	}
}
