package sqldb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *domain.Attachment) error {
	row := attachmentRow{
		TaskID:     a.TaskID,
		FileName:   a.FileName,
		FileURL:    a.FileURL,
		Size:       a.Size,
		Checksum:   a.Checksum,
		UploadedAt: a.UploadedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	a.ID = row.ID
	return nil
}

// FindByID loads an attachment with its parent task.
func (r *AttachmentRepository) FindByID(ctx context.Context, id int64) (*domain.Attachment, error) {
	return r.find(ctx, "id = ?", id)
}

func (r *AttachmentRepository) FindByFileName(ctx context.Context, name string) (*domain.Attachment, error) {
	return r.find(ctx, "file_name = ?", name)
}

func (r *AttachmentRepository) find(ctx context.Context, query string, arg any) (*domain.Attachment, error) {
	db := r.db.WithContext(ctx)

	var row attachmentRow
	err := db.Where(query, arg).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAttachmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find attachment: %w", err)
	}

	a := row.toDomain()
	var task taskRow
	err = db.Where("id = ?", row.TaskID).Take(&task).Error
	switch {
	case err == nil:
		a.Task = task.toDomain()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find attachment task: %w", err)
	}
	return a, nil
}

func (r *AttachmentRepository) ListForTask(ctx context.Context, taskID int64) ([]*domain.Attachment, error) {
	var rows []attachmentRow
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("uploaded_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	out := make([]*domain.Attachment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *AttachmentRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&attachmentRow{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete attachment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAttachmentNotFound
	}
	return nil
}
