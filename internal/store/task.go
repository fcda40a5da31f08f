package store

import (
	"context"

	"github.com/taskly/taskly-api/internal/domain"
)

// TaskFilter narrows a task listing. Zero values mean "no restriction".
type TaskFilter struct {
	Status domain.TaskStatus
}

// TaskStore defines the interface for task persistence. Every read and write
// is scoped by owner: a task owned by someone else behaves exactly like a
// task that does not exist.
type TaskStore interface {
	// Create inserts task and fills in ID and CreateDate.
	Create(ctx context.Context, task *domain.Task) error

	// ListByUser returns the tasks owned by userID, ordered by id.
	// An empty result is a nil error and an empty slice.
	ListByUser(ctx context.Context, userID int64, filter TaskFilter) ([]domain.Task, error)

	// GetForUser returns task id if userID owns it, ErrTaskNotFound otherwise.
	GetForUser(ctx context.Context, id, userID int64) (*domain.Task, error)

	// UpdateForUser replaces title, description and status of task.ID when
	// task.UserID owns it, in a single conditioned statement. CreateDate is
	// refreshed from the stored row. Returns ErrTaskNotFound otherwise.
	UpdateForUser(ctx context.Context, task *domain.Task) error

	// DeleteForUser removes task id when userID owns it, ErrTaskNotFound otherwise.
	DeleteForUser(ctx context.Context, id, userID int64) error
}
