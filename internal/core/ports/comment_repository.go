package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	FindByID(ctx context.Context, id int64) (*domain.Comment, error)
	// ListForTask returns comments newest first, skipping (page-1)*pageSize rows.
	ListForTask(ctx context.Context, taskID int64, page, pageSize int) ([]*domain.Comment, int64, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}
