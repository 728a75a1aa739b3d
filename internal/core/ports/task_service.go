package ports

import (
	"context"
	"time"

	"github.com/taskflow/taskboard/internal/core/domain"
)

// CreateTaskInput carries all data needed to create a task. The owner is the caller.
type CreateTaskInput struct {
	Title          string
	Description    string
	AssigneeID     *string
	IsCompleted    bool
	CategoryID     int64
	DueDate        *time.Time // nil = now + domain.DefaultDueIn
	IdempotencyKey string
}

// CreateTaskResult is returned by CreateTask.
type CreateTaskResult struct {
	ID        int64
	CreatedAt time.Time
	// AlreadyExisted is true when the Idempotency-Key matched a previous request.
	AlreadyExisted bool
}

// ListTasksInput carries the list endpoint parameters.
type ListTasksInput struct {
	PageNumber  int
	PageSize    int
	Search      string
	IsCompleted *bool
	AssigneeID  string
	SortBy      string
}

type ListTasksResult struct {
	Items      []*domain.Task
	TotalCount int64
	PageNumber int
	PageSize   int
}

// UpdateTaskInput is a partial update: nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	AssigneeID  *string
	IsCompleted *bool
	CategoryID  *int64
	DueDate     *time.Time
}

// TaskDetail is the full task view. Owner and Assignee are nil when the
// identity provider could not resolve them.
type TaskDetail struct {
	Task     *domain.Task
	Owner    *domain.UserProfile
	Assignee *domain.UserProfile
}

type TaskService interface {
	CreateTask(ctx context.Context, caller domain.Caller, input CreateTaskInput) (*CreateTaskResult, error)
	ListTasks(ctx context.Context, input ListTasksInput) (*ListTasksResult, error)
	GetTask(ctx context.Context, id int64) (*TaskDetail, error)
	UpdateTask(ctx context.Context, caller domain.Caller, id int64, input UpdateTaskInput) error
	DeleteTask(ctx context.Context, caller domain.Caller, id int64) error
	ListActivity(ctx context.Context, taskID int64) ([]domain.Activity, error)
}
