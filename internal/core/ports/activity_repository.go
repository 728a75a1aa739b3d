package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

// ActivityRepository is the audit trail of task mutations.
type ActivityRepository interface {
	Record(ctx context.Context, a *domain.Activity) error
	// ListForTask returns the most recent entries first, at most limit.
	ListForTask(ctx context.Context, taskID int64, limit int) ([]domain.Activity, error)
}
