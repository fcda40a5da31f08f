package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/platform/postgres"
	"github.com/taskly/taskly-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const (
	insertUserQuery = `INSERT INTO users \(username,email,hashed_password,is_active,is_admin\) VALUES \(\$1,\$2,\$3,\$4,\$5\) RETURNING id`
	selectUserQuery = `SELECT id, username, email, hashed_password, is_active, is_admin FROM users WHERE `
)

var userCols = []string{"id", "username", "email", "hashed_password", "is_active", "is_admin"}

func TestPostgresUserStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("hashes password and sets id", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		user, err := domain.NewUser("alice", "alice@example.com", "password123")
		require.NoError(t, err)

		mock.ExpectQuery(insertUserQuery).
			WithArgs("alice", "alice@example.com", bcryptOf("password123"), true, false).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

		require.NoError(t, userStore.Create(context.Background(), user))
		assert.Equal(t, int64(42), user.ID)
		assert.Empty(t, user.Password, "plaintext must be cleared after hashing")
		assert.NotEqual(t, "password123", user.HashedPassword)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid user never reaches the database", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		err := userStore.Create(context.Background(), &domain.User{Username: "bob", Email: "nope", Password: "pw"})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	duplicates := []struct {
		name       string
		constraint string
		expected   error
	}{
		{"duplicate username", "users_username_key", store.ErrUsernameExists},
		{"duplicate email", "users_email_key", store.ErrEmailExists},
	}
	for _, tc := range duplicates {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMockDB(t)
			userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

			user, err := domain.NewUser("alice", "alice@example.com", "password123")
			require.NoError(t, err)

			mock.ExpectQuery(insertUserQuery).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})

			err = userStore.Create(context.Background(), user)
			assert.ErrorIs(t, err, tc.expected)
			assert.ErrorIs(t, err, store.ErrDuplicate)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("driver failure is wrapped", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		user, err := domain.NewUser("alice", "alice@example.com", "password123")
		require.NoError(t, err)

		cause := errors.New("connection reset")
		mock.ExpectQuery(insertUserQuery).WillReturnError(cause)

		err = userStore.Create(context.Background(), user)
		assert.ErrorIs(t, err, cause)
		var storeErr *store.StoreError
		assert.ErrorAs(t, err, &storeErr)
	})
}

func TestPostgresUserStore_Get(t *testing.T) {
	t.Parallel()

	t.Run("by username", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery(selectUserQuery+`username = \$1`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(int64(3), "alice", "alice@example.com", "$2a$04$hash", true, true))

		user, err := userStore.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "$2a$04$hash", user.HashedPassword)
		assert.True(t, user.IsActive)
		assert.True(t, user.IsAdmin)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("by id not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectQuery(selectUserQuery + `id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(userCols))

		user, err := userStore.GetByID(context.Background(), 99)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStore_UpdatePermissions(t *testing.T) {
	t.Parallel()

	const updateQuery = `UPDATE users SET is_active = \$1, is_admin = \$2 WHERE id = \$3`

	t.Run("updates both flags", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectExec(updateQuery).
			WithArgs(false, true, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, userStore.UpdatePermissions(context.Background(), 7, false, true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		mock.ExpectExec(updateQuery).
			WithArgs(true, true, int64(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := userStore.UpdatePermissions(context.Background(), 8, true, true)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive id", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

		err := userStore.UpdatePermissions(context.Background(), 0, true, true)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStore_WithTx(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	userStore := postgres.NewPostgresUserStore(db, bcrypt.MinCost, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(selectUserQuery+`username = \$1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(int64(1), "alice", "alice@example.com", "hash", true, false))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)

	user, err := userStore.WithTx(tx).GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresUserStorePanicsOnNilDB(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { postgres.NewPostgresUserStore(nil, bcrypt.MinCost, nil) })
}
