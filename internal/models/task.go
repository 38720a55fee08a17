package models

import "time"

// Task statuses.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Task priorities.
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task represents a single todo item owned by a user.
type Task struct {
	ID          string     `json:"id"`                 // task UUID
	UserID      string     `json:"-"`                  // owner, implied by the authenticated request
	Title       string     `json:"title"`              // 1-200 chars after trimming
	Description string     `json:"description"`        // optional free text
	Status      string     `json:"status"`             // pending | completed
	Priority    string     `json:"priority"`           // low | medium | high
	DueDate     *time.Time `json:"due_date,omitempty"` // optional deadline
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
