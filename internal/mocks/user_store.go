package mocks

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// MockUserStore implements store.UserStore for testing.
// The default behavior is an in-memory table keyed by id with unique
// usernames and emails. Passwords are hashed with bcrypt.MinCost.
type MockUserStore struct {
	CreateFn            func(ctx context.Context, user *domain.User) error
	GetByIDFn           func(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameFn     func(ctx context.Context, username string) (*domain.User, error)
	UpdatePermissionsFn func(ctx context.Context, id int64, isActive, isAdmin bool) error

	mu     sync.Mutex
	users  map[int64]domain.User
	nextID int64
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users: make(map[int64]domain.User),
	}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	if user.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.HashedPassword = string(hash)
		user.Password = ""
	}

	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = *user
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// UpdatePermissions implements the UserStore interface
func (m *MockUserStore) UpdatePermissions(ctx context.Context, id int64, isActive, isAdmin bool) error {
	if m.UpdatePermissionsFn != nil {
		return m.UpdatePermissionsFn(ctx, id, isActive, isAdmin)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	user.IsActive = isActive
	user.IsAdmin = isAdmin
	m.users[id] = user
	return nil
}

// WithTx implements the UserStore interface. The mock has no transactions
// and returns itself.
func (m *MockUserStore) WithTx(tx *sqlx.Tx) store.UserStore {
	return m
}

// TestifyMockUserStore is a mock of store.UserStore interface for use with testify/mock
type TestifyMockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)

// Create is a mock implementation of store.UserStore.Create
func (m *TestifyMockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *TestifyMockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByUsername is a mock implementation of store.UserStore.GetByUsername
func (m *TestifyMockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdatePermissions is a mock implementation of store.UserStore.UpdatePermissions
func (m *TestifyMockUserStore) UpdatePermissions(ctx context.Context, id int64, isActive, isAdmin bool) error {
	args := m.Called(ctx, id, isActive, isAdmin)
	return args.Error(0)
}

// WithTx is a mock implementation of store.UserStore.WithTx
func (m *TestifyMockUserStore) WithTx(tx *sqlx.Tx) store.UserStore {
	m.Called(tx)
	return m
}
