package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tasklist/internal/models"
	"github.com/iudanet/tasklist/internal/server/storage"
	"github.com/iudanet/tasklist/internal/validation"
	"github.com/iudanet/tasklist/pkg/api"
)

// TaskHandler handles the task CRUD endpoints. Every operation is scoped to
// the authenticated user set by the auth middleware.
type TaskHandler struct {
	logger *slog.Logger
	tasks  storage.TaskStorage
}

// NewTaskHandler creates a new handler for the task endpoints.
func NewTaskHandler(logger *slog.Logger, tasks storage.TaskStorage) *TaskHandler {
	return &TaskHandler{
		logger: logger,
		tasks:  tasks,
	}
}

// List handles GET /api/v1/tasks.
// Query parameters: status, priority, q (substring search), sort, order.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(h.logger, w, MsgTokenInvalid, http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	filter := storage.TaskFilter{
		Status:   query.Get("status"),
		Priority: query.Get("priority"),
		Query:    strings.TrimSpace(query.Get("q")),
		SortBy:   query.Get("sort"),
		Order:    query.Get("order"),
	}

	if filter.Status != "" {
		if err := validation.ValidateTaskStatus(filter.Status); err != nil {
			WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if filter.Priority != "" {
		if err := validation.ValidateTaskPriority(filter.Priority); err != nil {
			WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	tasks, err := h.tasks.ListTasks(ctx, userID, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list tasks", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSON(h.logger, w, api.TaskListResponse{Tasks: tasks, Total: len(tasks)}, http.StatusOK)
}

// Create handles POST /api/v1/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(h.logger, w, MsgTokenInvalid, http.StatusUnauthorized)
		return
	}

	var req api.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode task request", slog.Any("error", err))
		WriteError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(req.Title)
	if err := validation.ValidateTaskTitle(title); err != nil {
		WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if err := validation.ValidateTaskPriority(priority); err != nil {
		WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	task := &models.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      models.TaskStatusPending,
		Priority:    priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.tasks.CreateTask(ctx, task); err != nil {
		h.logger.ErrorContext(ctx, "failed to create task", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "task created",
		slog.String("user_id", userID),
		slog.String("task_id", task.ID))

	WriteJSON(h.logger, w, task, http.StatusCreated)
}

// Get handles GET /api/v1/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(h.logger, w, MsgTokenInvalid, http.StatusUnauthorized)
		return
	}

	task, err := h.tasks.GetTask(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			WriteError(h.logger, w, "Task not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get task", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSON(h.logger, w, task, http.StatusOK)
}

// Update handles PUT /api/v1/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(h.logger, w, MsgTokenInvalid, http.StatusUnauthorized)
		return
	}

	var req api.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode task request", slog.Any("error", err))
		WriteError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.GetTask(ctx, userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			WriteError(h.logger, w, "Task not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get task", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := validation.ValidateTaskTitle(title); err != nil {
			WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if err := validation.ValidateTaskStatus(*req.Status); err != nil {
			WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		if err := validation.ValidateTaskPriority(*req.Priority); err != nil {
			WriteError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
		task.Priority = *req.Priority
	}
	if req.ClearDueDate {
		task.DueDate = nil
	} else if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	task.UpdatedAt = time.Now()

	if err := h.tasks.UpdateTask(ctx, task); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			WriteError(h.logger, w, "Task not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update task", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	WriteJSON(h.logger, w, task, http.StatusOK)
}

// Delete handles DELETE /api/v1/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(h.logger, w, MsgTokenInvalid, http.StatusUnauthorized)
		return
	}

	if err := h.tasks.DeleteTask(ctx, userID, r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrTaskNotFound) {
			WriteError(h.logger, w, "Task not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete task", slog.Any("error", err))
		WriteError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "task deleted",
		slog.String("user_id", userID),
		slog.String("task_id", r.PathValue("id")))

	w.WriteHeader(http.StatusNoContent)
}
