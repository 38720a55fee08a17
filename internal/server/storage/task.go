package storage

import (
	"context"

	"github.com/iudanet/tasklist/internal/models"
)

// TaskFilter narrows and orders a task listing. Zero values mean "no filter".
type TaskFilter struct {
	Status   string // pending | completed
	Priority string // low | medium | high
	Query    string // case-insensitive substring match over title and description
	SortBy   string // created_at | due_date | title | priority (default created_at)
	Order    string // asc | desc (default desc)
}

// TaskStorage defines the interface for task persistence.
// Every operation is scoped to the owning user.
type TaskStorage interface {
	// CreateTask inserts a new task.
	CreateTask(ctx context.Context, task *models.Task) error

	// GetTask retrieves a task by ID for the given user.
	// Returns ErrTaskNotFound if it does not exist or belongs to someone else.
	GetTask(ctx context.Context, userID, taskID string) (*models.Task, error)

	// ListTasks returns the user's tasks matching the filter.
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]*models.Task, error)

	// UpdateTask persists changes to an existing task.
	// Returns ErrTaskNotFound if it does not exist or belongs to someone else.
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask removes a task by ID for the given user.
	// Returns ErrTaskNotFound if it does not exist or belongs to someone else.
	DeleteTask(ctx context.Context, userID, taskID string) error
}
