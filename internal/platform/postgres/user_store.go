package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/platform/logger"
	"github.com/taskly/taskly-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "username", "email", "hashed_password", "is_active", "is_admin"}

type userRow struct {
	ID             int64  `db:"id"`
	Username       string `db:"username"`
	Email          string `db:"email"`
	HashedPassword string `db:"hashed_password"`
	IsActive       bool   `db:"is_active"`
	IsAdmin        bool   `db:"is_admin"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Username:       r.Username,
		Email:          r.Email,
		HashedPassword: r.HashedPassword,
		IsActive:       r.IsActive,
		IsAdmin:        r.IsAdmin,
	}
}

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// bcryptCost is the work factor used when hashing passwords on Create.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		logger.Warn("invalid bcrypt cost, using default",
			slog.Int("provided_cost", bcryptCost),
			slog.Int("default_cost", bcrypt.DefaultCost))
		bcryptCost = bcrypt.DefaultCost
	}

	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sqlx.Tx) store.UserStore {
	return &PostgresUserStore{
		db:         tx,
		bcryptCost: s.bcryptCost,
		logger:     s.logger,
	}
}

// Create implements store.UserStore.Create
// It validates the user, hashes the plaintext password and inserts the row.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Debug("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return err
	}

	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password", slog.String("error", err.Error()))
			return store.NewStoreError("user", "create", "failed to hash password", err)
		}
		user.HashedPassword = string(hash)
		user.Password = ""
	}

	query, args, err := psql.
		Insert("users").
		Columns("username", "email", "hashed_password", "is_active", "is_admin").
		Values(user.Username, user.Email, user.HashedPassword, user.IsActive, user.IsAdmin).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return store.NewStoreError("user", "create", "failed to build query", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&user.ID); err != nil {
		mapped := MapUserUniqueViolation(err)
		if store.IsDuplicateError(mapped) {
			log.Debug("duplicate user on create",
				slog.String("username", user.Username),
				slog.String("error", mapped.Error()))
			return mapped
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return store.NewStoreError("user", "create", "failed to insert user", mapped)
	}

	log.Info("user created",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.getOne(ctx, "id", id)
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getOne(ctx, "username", username)
}

func (s *PostgresUserStore) getOne(ctx context.Context, column string, value interface{}) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, store.NewStoreError("user", "get", "failed to build query", err)
	}

	var row userRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("by", column))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("by", column))
		return nil, store.NewStoreError("user", "get", "failed to query user", MapError(err))
	}

	return row.toDomain(), nil
}

// UpdatePermissions implements store.UserStore.UpdatePermissions
func (s *PostgresUserStore) UpdatePermissions(ctx context.Context, id int64, isActive, isAdmin bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return domain.ErrInvalidID
	}

	query, args, err := psql.
		Update("users").
		Set("is_active", isActive).
		Set("is_admin", isAdmin).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return store.NewStoreError("user", "update", "failed to build query", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update user permissions",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return store.NewStoreError("user", "update", "failed to update permissions", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("update permissions: %w", err)
		}
		log.Debug("user not found for permission update", slog.Int64("user_id", id))
		return err
	}

	log.Info("user permissions updated",
		slog.Int64("user_id", id),
		slog.Bool("is_active", isActive),
		slog.Bool("is_admin", isAdmin))
	return nil
}
