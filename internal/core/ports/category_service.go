package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, name, description string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}
