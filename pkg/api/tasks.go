package api

import (
	"time"

	"github.com/iudanet/tasklist/internal/models"
)

// CreateTaskRequest is the body of POST /api/v1/tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"` // defaults to medium
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateTaskRequest is the body of PUT /api/v1/tasks/{id}.
// Absent fields are left unchanged; clear_due_date removes the deadline.
type UpdateTaskRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
}

// TaskListResponse is returned by GET /api/v1/tasks.
type TaskListResponse struct {
	Tasks []*models.Task `json:"tasks"`
	Total int            `json:"total"`
}
