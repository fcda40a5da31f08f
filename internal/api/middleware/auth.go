package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskly/taskly-api/internal/api/shared"
	"github.com/taskly/taskly-api/internal/platform/logger"
	"github.com/taskly/taskly-api/internal/redact"
	"github.com/taskly/taskly-api/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates the bearer token from the Authorization header and
// places the decoded claims in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, r, "Not authenticated", auth.ErrMissingToken)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				unauthorized(w, r, "Token expired", err)
			case errors.Is(err, auth.ErrInvalidToken):
				unauthorized(w, r, "Could not validate credentials", err)
			default:
				logger.FromContextOrDefault(r.Context(), m.logger).
					Error("failed to validate token", slog.String("error", redact.Error(err)))
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			}
			return
		}

		ctx := shared.WithClaims(r.Context(), claims)
		ctx = logger.WithLogger(ctx, logger.FromContextOrDefault(ctx, m.logger).
			With(slog.Int64("user_id", claims.UserID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, message, err)
}
