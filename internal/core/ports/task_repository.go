package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

// ListTasksFilter carries the query parameters for listing tasks.
type ListTasksFilter struct {
	Search      string // optional: partial match on title
	IsCompleted *bool  // optional
	AssigneeID  string // optional
	SortBy      domain.TaskSortKey
	Page        int // 1-based
	PageSize    int
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	// Create inserts t and sets its ID.
	Create(ctx context.Context, t *domain.Task) error
	// FindByID loads a task together with its category.
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// List returns a page of tasks (with category, labels and child counts) and the total match count.
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
	Update(ctx context.Context, t *domain.Task) error
	// Delete removes the task and its comments, attachments and label links.
	Delete(ctx context.Context, id int64) error
}
