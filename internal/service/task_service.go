package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/platform/logger"
	"github.com/taskly/taskly-api/internal/service/auth"
	"github.com/taskly/taskly-api/internal/store"
)

// TaskInput holds the caller-controlled fields of a task.
type TaskInput struct {
	Title       string
	Description string
	Status      string
}

// TaskService runs task operations on behalf of the user named by the claims.
// A task owned by someone else is indistinguishable from a missing one.
type TaskService interface {
	Create(ctx context.Context, claims *auth.Claims, input TaskInput) (*domain.Task, error)

	// List returns the caller's tasks ordered by id. statusFilter is optional;
	// a non-empty value must be a valid status.
	List(ctx context.Context, claims *auth.Claims, statusFilter string) ([]domain.Task, error)

	Get(ctx context.Context, claims *auth.Claims, id int64) (*domain.Task, error)

	// Update replaces title, description and status of task id.
	Update(ctx context.Context, claims *auth.Claims, id int64, input TaskInput) (*domain.Task, error)

	Delete(ctx context.Context, claims *auth.Claims, id int64) error
}

type taskService struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a TaskService backed by taskStore.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) TaskService {
	if taskStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskService{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

// ownerID extracts the caller id from claims.
func ownerID(claims *auth.Claims) (int64, error) {
	if claims == nil || claims.UserID <= 0 {
		return 0, auth.ErrMissingToken
	}
	return claims.UserID, nil
}

func (in TaskInput) toTask(userID int64) (*domain.Task, error) {
	status, err := domain.ParseTaskStatus(strings.TrimSpace(in.Status))
	if err != nil {
		return nil, err
	}
	return domain.NewTask(userID, in.Title, in.Description, status)
}

// Create implements TaskService.Create
func (s *taskService) Create(ctx context.Context, claims *auth.Claims, input TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	userID, err := ownerID(claims)
	if err != nil {
		return nil, err
	}

	task, err := input.toTask(userID)
	if err != nil {
		log.Debug("invalid task input",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// List implements TaskService.List
func (s *taskService) List(ctx context.Context, claims *auth.Claims, statusFilter string) ([]domain.Task, error) {
	userID, err := ownerID(claims)
	if err != nil {
		return nil, err
	}

	var filter store.TaskFilter
	if statusFilter != "" {
		status, err := domain.ParseTaskStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		filter.Status = status
	}

	tasks, err := s.taskStore.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Get implements TaskService.Get
func (s *taskService) Get(ctx context.Context, claims *auth.Claims, id int64) (*domain.Task, error) {
	userID, err := ownerID(claims)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}

	task, err := s.taskStore.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Update implements TaskService.Update
func (s *taskService) Update(
	ctx context.Context,
	claims *auth.Claims,
	id int64,
	input TaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	userID, err := ownerID(claims)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}

	task, err := input.toTask(userID)
	if err != nil {
		log.Debug("invalid task input",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}
	task.ID = id

	if err := s.taskStore.UpdateForUser(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Delete implements TaskService.Delete
func (s *taskService) Delete(ctx context.Context, claims *auth.Claims, id int64) error {
	userID, err := ownerID(claims)
	if err != nil {
		return err
	}
	if id <= 0 {
		return domain.ErrInvalidID
	}

	if err := s.taskStore.DeleteForUser(ctx, id, userID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
