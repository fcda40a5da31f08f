package domain

import "time"

// TaskStatus is the progress state of a task. Any status may move to any other.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists every accepted status in display order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// IsValid reports whether s is one of the enumerated statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// ParseTaskStatus converts raw input into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(raw)
	if !s.IsValid() {
		return "", ErrInvalidTaskStatus
	}
	return s, nil
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreateDate  time.Time  `json:"create_date"`
}

// NewTask builds an unsaved task for owner userID. ID and CreateDate are
// assigned by the store.
func NewTask(userID int64, title, description string, status TaskStatus) (*Task, error) {
	t := &Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks the fields a caller controls plus the owner reference.
func (t *Task) Validate() error {
	if t.UserID <= 0 {
		return NewValidationError("user_id", "must be positive", ErrInvalidID)
	}
	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}
	return nil
}
