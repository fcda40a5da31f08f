package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taskly/taskly-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// Unique constraint names created by the users migration.
const (
	usersUsernameKey = "users_username_key"
	usersEmailKey    = "users_email_key"
)

// MapError maps a database error to the matching store sentinel, wrapping the
// original error so it stays available for logging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf(
				"%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case checkViolationCode:
			return fmt.Errorf(
				"%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		case notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ColumnName,
				err,
			)
		}
	}

	return err
}

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// MapUserUniqueViolation resolves a unique violation on the users table to
// store.ErrUsernameExists or store.ErrEmailExists by constraint name.
// Any other error goes through MapError.
func MapUserUniqueViolation(err error) error {
	if !IsUniqueViolation(err) {
		return MapError(err)
	}

	var pgErr *pgconn.PgError
	errors.As(err, &pgErr)

	switch pgErr.ConstraintName {
	case usersUsernameKey:
		return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
	case usersEmailKey:
		return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
	default:
		return fmt.Errorf("%w: duplicate value for constraint %s: %v",
			store.ErrDuplicate, pgErr.ConstraintName, err)
	}
}

// CheckRowsAffected returns notFound when result reports zero affected rows.
// UPDATE and DELETE statements that are conditioned on ownership use this to
// distinguish "absent or not yours" from success.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}

	return nil
}
