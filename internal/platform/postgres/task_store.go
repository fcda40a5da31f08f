package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/taskly/taskly-api/internal/domain"
	"github.com/taskly/taskly-api/internal/platform/logger"
	"github.com/taskly/taskly-api/internal/store"
)

var taskColumns = []string{"id", "user_id", "title", "description", "status", "create_date"}

type taskRow struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	CreateDate  time.Time `db:"create_date"`
}

func (r taskRow) toDomain() domain.Task {
	return domain.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		CreateDate:  r.CreateDate,
	}
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
// Every statement is conditioned on the owning user id.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Debug("task validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("user_id", task.UserID))
		return err
	}

	query, args, err := psql.
		Insert("tasks").
		Columns("user_id", "title", "description", "status").
		Values(task.UserID, task.Title, task.Description, string(task.Status)).
		Suffix("RETURNING id, create_date").
		ToSql()
	if err != nil {
		return store.NewStoreError("task", "create", "failed to build query", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&task.ID, &task.CreateDate); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", task.UserID))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", task.UserID),
		slog.String("status", string(task.Status)))
	return nil
}

// ListByUser implements store.TaskStore.ListByUser
func (s *PostgresTaskStore) ListByUser(
	ctx context.Context,
	userID int64,
	filter store.TaskFilter,
) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	builder := psql.
		Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"user_id": userID})
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": string(filter.Status)})
	}

	query, args, err := builder.OrderBy("id").ToSql()
	if err != nil {
		return nil, store.NewStoreError("task", "list", "failed to build query", err)
	}

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toDomain())
	}

	log.Debug("tasks listed",
		slog.Int64("user_id", userID),
		slog.String("status_filter", string(filter.Status)),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// GetForUser implements store.TaskStore.GetForUser
func (s *PostgresTaskStore) GetForUser(ctx context.Context, id, userID int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, store.NewStoreError("task", "get", "failed to build query", err)
	}

	var row taskRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.Int64("task_id", id),
				slog.Int64("user_id", userID))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}

	task := row.toDomain()
	return &task, nil
}

// UpdateForUser implements store.TaskStore.UpdateForUser
func (s *PostgresTaskStore) UpdateForUser(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if task.ID <= 0 {
		return domain.ErrInvalidID
	}
	if err := task.Validate(); err != nil {
		log.Debug("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	query, args, err := psql.
		Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("status", string(task.Status)).
		Where(squirrel.Eq{"id": task.ID}).
		Where(squirrel.Eq{"user_id": task.UserID}).
		Suffix("RETURNING create_date").
		ToSql()
	if err != nil {
		return store.NewStoreError("task", "update", "failed to build query", err)
	}

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&task.CreateDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update",
				slog.Int64("task_id", task.ID),
				slog.Int64("user_id", task.UserID))
			return store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}

	log.Info("task updated",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	return nil
}

// DeleteForUser implements store.TaskStore.DeleteForUser
func (s *PostgresTaskStore) DeleteForUser(ctx context.Context, id, userID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := psql.
		Delete("tasks").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return store.NewStoreError("task", "delete", "failed to build query", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			return fmt.Errorf("delete task: %w", err)
		}
		log.Debug("task not found for delete",
			slog.Int64("task_id", id),
			slog.Int64("user_id", userID))
		return err
	}

	log.Info("task deleted",
		slog.Int64("task_id", id),
		slog.Int64("user_id", userID))
	return nil
}
