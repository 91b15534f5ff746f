package repository

import (
	"context"
	"time"
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether the status is one of the enumerated values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is one of the enumerated values.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is the public projection of a task. Ownership is not stored on the
// task itself; it resolves transitively through the owning project.
type Task struct {
	ID         string
	ProjectID  string
	Title      string
	AssignedTo *string
	Status     TaskStatus
	Priority   TaskPriority
	CreatedAt  time.Time
}

// CreateTaskInput contains the data to create a task. UserID is the acting
// user, checked against the project's owner before insertion.
type CreateTaskInput struct {
	ProjectID string
	UserID    string
	Title     string
}

// UpdateTaskInput contains the updatable fields of a task.
// Nil means "leave unchanged"; an empty AssignedTo clears the assignee.
type UpdateTaskInput struct {
	Title      *string
	Status     *string
	Priority   *string
	AssignedTo *string
}

// TaskRepository defines operations over tasks, all scoped through the
// owning project's user_id.
type TaskRepository interface {
	// Create inserts a task after explicitly checking that the project
	// exists and is owned by the acting user. A foreign key alone is not
	// enough: it does not encode ownership.
	Create(ctx context.Context, in CreateTaskInput) (*Task, error)

	// Get returns the task only if its project belongs to userID.
	Get(ctx context.Context, taskID, userID string) (*Task, error)

	// ListByProject returns the project's tasks, newest first.
	// Returns ErrNotFound when the result set is empty, which also covers
	// the case of a project owned by someone else.
	ListByProject(ctx context.Context, projectID, userID string) ([]Task, error)

	// ListByAssignee returns tasks assigned to a user, restricted to
	// projects owned by the acting user, newest first.
	ListByAssignee(ctx context.Context, assigneeID, userID string) ([]Task, error)

	// Update applies a partial update scoped through project ownership.
	Update(ctx context.Context, taskID, userID string, in UpdateTaskInput) (*Task, error)

	// Delete removes the task, scoped through project ownership.
	Delete(ctx context.Context, taskID, userID string) error
}
