package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

// LabelRepository persists labels and their task associations.
type LabelRepository interface {
	Create(ctx context.Context, l *domain.Label) error
	List(ctx context.Context) ([]domain.Label, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error

	// Assign links a label to a task. It reports false when the link already existed.
	Assign(ctx context.Context, taskID, labelID int64) (bool, error)
	// Unassign removes the link. It reports false when there was nothing to remove.
	Unassign(ctx context.Context, taskID, labelID int64) (bool, error)
	ListForTask(ctx context.Context, taskID int64) ([]domain.Label, error)
}
