package models

import "time"

// Colors a task may be tagged with.
var TaskColors = []string{"red", "blue", "green", "yellow", "purple", "orange", "pink", "gray"}

// Priorities a task may carry.
var TaskPriorities = []string{"low", "medium", "high", "urgent"}

// DefaultPriority is stored when a new task names none.
const DefaultPriority = "medium"

// Task is a single todo item.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Color       string     `json:"color"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask holds the fields of a task about to be stored. The store assigns
// the id and both timestamps.
type NewTask struct {
	Title       string
	Color       string
	Description *string
	DueDate     *time.Time
	Priority    string
}

// TaskChanges is a partial update; nil fields are left untouched.
type TaskChanges struct {
	Title       *string
	Color       *string
	Description *string
	DueDate     *time.Time
	Priority    *string
	Completed   *bool
}

// TaskFilter narrows a count. A nil Completed counts every task.
type TaskFilter struct {
	Completed *bool
}

// TaskStats summarizes task completion.
type TaskStats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}
