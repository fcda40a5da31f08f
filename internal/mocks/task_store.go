package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// The default behavior is an in-memory table; every lookup and mutation is
// conditioned on the owner exactly like the SQL statements.
type MockTaskStore struct {
	CreateFn        func(ctx context.Context, task *domain.Task) error
	ListByUserFn    func(ctx context.Context, userID int64, filter store.TaskFilter) ([]domain.Task, error)
	GetForUserFn    func(ctx context.Context, id, userID int64) (*domain.Task, error)
	UpdateForUserFn func(ctx context.Context, task *domain.Task) error
	DeleteForUserFn func(ctx context.Context, id, userID int64) error

	// Now stamps CreateDate on insert. Defaults to time.Now.
	Now func() time.Time

	mu     sync.Mutex
	tasks  map[int64]domain.Task
	nextID int64
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		tasks: make(map[int64]domain.Task),
		Now:   time.Now,
	}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	task.ID = m.nextID
	task.CreateDate = m.Now().UTC()
	m.tasks[task.ID] = *task
	return nil
}

// ListByUser implements the TaskStore interface
func (m *MockTaskStore) ListByUser(ctx context.Context, userID int64, filter store.TaskFilter) ([]domain.Task, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]domain.Task, 0)
	for _, task := range m.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// GetForUser implements the TaskStore interface
func (m *MockTaskStore) GetForUser(ctx context.Context, id, userID int64) (*domain.Task, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, id, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	return &task, nil
}

// UpdateForUser implements the TaskStore interface
func (m *MockTaskStore) UpdateForUser(ctx context.Context, task *domain.Task) error {
	if m.UpdateForUserFn != nil {
		return m.UpdateForUserFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.Status = task.Status
	m.tasks[task.ID] = existing
	task.CreateDate = existing.CreateDate
	return nil
}

// DeleteForUser implements the TaskStore interface
func (m *MockTaskStore) DeleteForUser(ctx context.Context, id, userID int64) error {
	if m.DeleteForUserFn != nil {
		return m.DeleteForUserFn(ctx, id, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// Len reports how many tasks the store holds across all owners.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
