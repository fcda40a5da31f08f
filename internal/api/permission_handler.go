package api

import (
	"log/slog"
	"net/http"

	"github.com/taskly/taskly-api/internal/api/shared"
	"github.com/taskly/taskly-api/internal/service"
)

// PermissionHandler handles PATCH /permission/.
type PermissionHandler struct {
	permissionService service.PermissionService
	logger            *slog.Logger
}

// NewPermissionHandler creates a new PermissionHandler.
func NewPermissionHandler(permissionService service.PermissionService, logger *slog.Logger) *PermissionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PermissionHandler{
		permissionService: permissionService,
		logger:            logger.With(slog.String("component", "permission_handler")),
	}
}

// UpdatePermissions reads user_id, is_active and is_admin from the query
// string and overwrites both flags of the target user.
func (h *PermissionHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	// Non-admins are refused before the query string is even looked at.
	if !claims.IsAdmin {
		HandleAPIError(w, r, service.ErrForbidden, "")
		return
	}

	userID, err := parseID("user_id", r.URL.Query().Get("user_id"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	isActive, err := queryBool(r, "is_active")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	isAdmin, err := queryBool(r, "is_admin")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.permissionService.SetPermissions(r.Context(), claims, userID, isActive, isAdmin); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DetailResponse{
		StatusCode: http.StatusOK,
		Detail:     msgUserUpdated,
	})
}
