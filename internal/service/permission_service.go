package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/platform/logger"
	"github.com/taskly/taskly-api/internal/service/auth"
	"github.com/taskly/taskly-api/internal/store"
)

// PermissionService changes the is_active and is_admin flags of users.
type PermissionService interface {
	// SetPermissions overwrites both flags of targetUserID. Only callers
	// whose claims carry IsAdmin may do this; everyone else gets
	// ErrForbidden before any store access.
	SetPermissions(ctx context.Context, claims *auth.Claims, targetUserID int64, isActive, isAdmin bool) error

	// SetPermissionsByUsername is the operator path used to bootstrap
	// administrators. It trusts the caller and returns the updated user.
	SetPermissionsByUsername(ctx context.Context, username string, isActive, isAdmin bool) (*domain.User, error)
}

type permissionService struct {
	db        *sqlx.DB
	userStore store.UserStore
	logger    *slog.Logger
}

// NewPermissionService creates a PermissionService. db may be nil, in which
// case the username path runs without an explicit transaction.
func NewPermissionService(db *sqlx.DB, userStore store.UserStore, logger *slog.Logger) PermissionService {
	if userStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &permissionService{
		db:        db,
		userStore: userStore,
		logger:    logger.With(slog.String("component", "permission_service")),
	}
}

// SetPermissions implements PermissionService.SetPermissions
func (s *permissionService) SetPermissions(
	ctx context.Context,
	claims *auth.Claims,
	targetUserID int64,
	isActive, isAdmin bool,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if claims == nil {
		return auth.ErrMissingToken
	}
	if !claims.IsAdmin {
		log.Debug("non-admin attempted permission change",
			slog.Int64("user_id", claims.UserID),
			slog.Int64("target_user_id", targetUserID))
		return ErrForbidden
	}
	if targetUserID <= 0 {
		return domain.ErrInvalidID
	}

	if err := s.userStore.UpdatePermissions(ctx, targetUserID, isActive, isAdmin); err != nil {
		return fmt.Errorf("failed to update permissions: %w", err)
	}

	log.Info("permissions changed",
		slog.Int64("admin_id", claims.UserID),
		slog.Int64("target_user_id", targetUserID),
		slog.Bool("is_active", isActive),
		slog.Bool("is_admin", isAdmin))
	return nil
}

// SetPermissionsByUsername implements PermissionService.SetPermissionsByUsername
func (s *permissionService) SetPermissionsByUsername(
	ctx context.Context,
	username string,
	isActive, isAdmin bool,
) (*domain.User, error) {
	var updated *domain.User

	apply := func(ctx context.Context, users store.UserStore) error {
		user, err := users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		if err := users.UpdatePermissions(ctx, user.ID, isActive, isAdmin); err != nil {
			return err
		}
		user.IsActive = isActive
		user.IsAdmin = isAdmin
		updated = user
		return nil
	}

	var err error
	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
			return apply(ctx, s.userStore.WithTx(tx))
		})
	} else {
		err = apply(ctx, s.userStore)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set permissions for %q: %w", username, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("permissions set by operator",
		slog.Int64("user_id", updated.ID),
		slog.String("username", updated.Username),
		slog.Bool("is_active", isActive),
		slog.Bool("is_admin", isAdmin))
	return updated, nil
}
