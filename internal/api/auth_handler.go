package api

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/taskly/taskly-api/internal/api/shared"
	"github.com/taskly/taskly-api/internal/platform/logger"
	"github.com/taskly/taskly-api/internal/service"
)

// AuthHandler handles registration and token issuance.
type AuthHandler struct {
	authenticator service.Authenticator
	logger        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authenticator service.Authenticator, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authenticator: authenticator,
		logger:        logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.authenticator.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("registration succeeded", slog.Int64("user_id", user.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		StatusCode:  http.StatusCreated,
		Transaction: msgRegistered,
		UserID:      user.ID,
	})
}

// Token handles POST /auth/token. Credentials come from a form body
// (username, password) or from a JSON body with the same fields.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	req, err := decodeTokenRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	claims, err := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	token, err := h.authenticator.IssueToken(r.Context(), *claims)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func decodeTokenRequest(r *http.Request) (TokenRequest, error) {
	var req TokenRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" || strings.HasSuffix(mediaType, "+json") {
		err := shared.DecodeJSON(r, &req)
		return req, err
	}

	r.Body = http.MaxBytesReader(nil, r.Body, shared.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return req, shared.ErrMalformedBody
	}
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	return req, nil
}
