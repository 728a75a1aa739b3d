package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type AttachmentRepository interface {
	Create(ctx context.Context, a *domain.Attachment) error
	// FindByID loads an attachment with its parent task.
	FindByID(ctx context.Context, id int64) (*domain.Attachment, error)
	// FindByFileName loads an attachment by its stored name, with its parent task.
	FindByFileName(ctx context.Context, name string) (*domain.Attachment, error)
	// ListForTask returns attachments newest first.
	ListForTask(ctx context.Context, taskID int64) ([]*domain.Attachment, error)
	Delete(ctx context.Context, id int64) error
}
