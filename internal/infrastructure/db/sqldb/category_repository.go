package sqldb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	row := categoryRow{Name: c.Name, Description: c.Description}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	c.ID = row.ID
	return nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&categoryRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count category: %w", err)
	}
	return n > 0, nil
}

func (r *CategoryRepository) CountTasks(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&taskRow{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count category tasks: %w", err)
	}
	return n, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&categoryRow{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
