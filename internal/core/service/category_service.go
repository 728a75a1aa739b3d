package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

type CategoryService struct {
	categories ports.CategoryRepository
	logger     zerolog.Logger
}

func NewCategoryService(categories ports.CategoryRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

func (s *CategoryService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	c := &domain.Category{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// DeleteCategory removes an unused category. A category still referenced by
// tasks is a conflict.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrCategoryNotFound
	}

	n, err := s.categories.CountTasks(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info().Int64("category_id", id).Int64("tasks", n).Msg("refusing to delete category in use")
		return domain.ErrConflict
	}
	return s.categories.Delete(ctx, id)
}
