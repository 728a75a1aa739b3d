package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	row := commentRow{
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	c.ID = row.ID
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var row commentRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return row.toDomain(), nil
}

// ListForTask returns one page of a task's comments, newest first, and the
// task's total comment count.
func (r *CommentRepository) ListForTask(ctx context.Context, taskID int64, page, pageSize int) ([]*domain.Comment, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&commentRow{}).Where("task_id = ?", taskID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	if page < 1 {
		page = 1
	}
	var rows []commentRow
	err := db.Where("task_id = ?", taskID).
		Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	out := make([]*domain.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, total, nil
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	res := r.db.WithContext(ctx).Model(&commentRow{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return fmt.Errorf("update comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&commentRow{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}
