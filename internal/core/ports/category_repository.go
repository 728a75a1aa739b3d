package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	List(ctx context.Context) ([]domain.Category, error)
	Exists(ctx context.Context, id int64) (bool, error)
	CountTasks(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}
