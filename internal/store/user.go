package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/taskly/taskly-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create hashes user.Password, saves the user and sets user.ID.
	// The plaintext password is cleared once hashed.
	// Returns ErrUsernameExists or ErrEmailExists on duplicates.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by id.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// UpdatePermissions overwrites both flags of user id in one statement.
	// Returns ErrUserNotFound if the user does not exist.
	UpdatePermissions(ctx context.Context, id int64, isActive, isAdmin bool) error

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sqlx.Tx) UserStore
}
