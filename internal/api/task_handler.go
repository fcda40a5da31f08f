package api

import (
	"log/slog"
	"net/http"

	"github.com/taskly/taskly-api/internal/api/shared"
	"github.com/taskly/taskly-api/internal/platform/logger"
	"github.com/taskly/taskly-api/internal/service"
)

// TaskHandler handles the /tasks endpoints. Every route requires the
// authentication middleware.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

func (h *TaskHandler) decodeTaskRequest(w http.ResponseWriter, r *http.Request) (service.TaskInput, bool) {
	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return service.TaskInput{}, false
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return service.TaskInput{}, false
	}
	return service.TaskInput{
		Title:       *req.Title,
		Description: *req.Description,
		Status:      req.Status,
	}, true
}

// CreateTask handles POST /tasks/.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	input, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Create(r.Context(), claims, input)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTaskResponse{
		StatusCode:  http.StatusCreated,
		Transaction: msgTaskCreated,
		TaskID:      task.ID,
	})
}

// ListTasks handles GET /tasks/?todo_status=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	claims, err := claimsFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	statusFilter := r.URL.Query().Get("todo_status")
	tasks, err := h.taskService.List(r.Context(), claims, statusFilter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("tasks listed",
		slog.Int64("user_id", claims.UserID),
		slog.Int("count", len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.Get(r.Context(), claims, id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	input, ok := h.decodeTaskRequest(w, r)
	if !ok {
		return
	}

	if _, err := h.taskService.Update(r.Context(), claims, id, input); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TransactionResponse{
		StatusCode:  http.StatusOK,
		Transaction: msgTaskUpdated,
	})
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	claims, err := claimsFromRequest(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.taskService.Delete(r.Context(), claims, id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TransactionResponse{
		StatusCode:  http.StatusOK,
		Transaction: msgTaskDeleted,
	})
}
