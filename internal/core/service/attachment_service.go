package service

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

type AttachmentService struct {
	attachments ports.AttachmentRepository
	tasks       ports.TaskRepository
	blobs       ports.BlobStore
	activity    ports.ActivityRepository
	permissions ports.PermissionEvaluator
	logger      zerolog.Logger
}

func NewAttachmentService(
	attachments ports.AttachmentRepository,
	tasks ports.TaskRepository,
	blobs ports.BlobStore,
	activity ports.ActivityRepository,
	permissions ports.PermissionEvaluator,
	logger zerolog.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		tasks:       tasks,
		blobs:       blobs,
		activity:    activity,
		permissions: permissions,
		logger:      logger,
	}
}

// Upload stores a file for a task. The declared size is checked before any
// I/O. Only an admin, the task owner or the assignee may upload.
func (s *AttachmentService) Upload(ctx context.Context, caller domain.Caller, input ports.UploadAttachmentInput) (*domain.Attachment, error) {
	switch {
	case input.Size <= 0:
		return nil, domain.NewValidationError("file", "File is empty")
	case input.Size > domain.MaxAttachmentSize:
		return nil, domain.NewValidationError("file", "File size exceeds the 100 MB limit")
	}
	base := baseName(input.FileName)
	if base == "" {
		return nil, domain.NewValidationError("file", "File name is required")
	}

	task, err := s.tasks.FindByID(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.permissions.CanEditAsAdminOrCreatorOrAssignee(ctx, caller, task.OwnerID, task.AssigneeID)); err != nil {
		return nil, err
	}

	obj, err := s.blobs.Upload(ctx, ports.BlobUpload{
		Name:        uuid.NewString() + "_" + base,
		ContentType: input.ContentType,
		Content:     input.Content,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("task_id", input.TaskID).Msg("failed to upload attachment blob")
		return nil, err
	}

	a := &domain.Attachment{
		TaskID:     input.TaskID,
		FileName:   obj.Name,
		FileURL:    obj.URL,
		Size:       obj.Size,
		Checksum:   obj.Checksum,
		UploadedAt: obj.UploadedAt,
	}
	if err := s.attachments.Create(ctx, a); err != nil {
		s.logger.Error().Err(err).Str("blob", obj.Name).Msg("failed to record attachment, removing blob")
		if _, derr := s.blobs.Delete(ctx, obj.Name); derr != nil {
			s.logger.Warn().Err(derr).Str("blob", obj.Name).Msg("orphaned attachment blob")
		}
		return nil, err
	}

	recordActivity(ctx, s.activity, s.logger, a.TaskID, "attachment", a.ID, domain.ActionUploaded, caller.ID)
	s.logger.Info().Int64("task_id", a.TaskID).Int64("attachment_id", a.ID).Int64("size", a.Size).Msg("attachment uploaded")
	return a, nil
}

// List returns a task's attachments, newest first.
func (s *AttachmentService) List(ctx context.Context, taskID int64) ([]*domain.Attachment, error) {
	if err := requireTask(ctx, s.tasks, taskID); err != nil {
		return nil, err
	}
	return s.attachments.ListForTask(ctx, taskID)
}

// Download opens an attachment's content. Only an admin, the task owner or
// the assignee may download.
func (s *AttachmentService) Download(ctx context.Context, caller domain.Caller, taskID, attachmentID int64) (*ports.BlobDownload, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.permissions.CanEditAsAdminOrCreatorOrAssignee(ctx, caller, task.OwnerID, task.AssigneeID)); err != nil {
		return nil, err
	}

	a, err := s.attachments.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if a.TaskID != taskID {
		return nil, domain.ErrAttachmentNotFound
	}
	return s.open(ctx, a)
}

// DownloadFile opens an attachment by its stored name, applying the same
// rule as Download.
func (s *AttachmentService) DownloadFile(ctx context.Context, caller domain.Caller, storedName string) (*ports.BlobDownload, error) {
	a, err := s.attachments.FindByFileName(ctx, storedName)
	if err != nil {
		return nil, err
	}
	task := a.Task
	if task == nil {
		if task, err = s.tasks.FindByID(ctx, a.TaskID); err != nil {
			return nil, err
		}
	}
	if err := authorize(s.permissions.CanEditAsAdminOrCreatorOrAssignee(ctx, caller, task.OwnerID, task.AssigneeID)); err != nil {
		return nil, err
	}
	return s.open(ctx, a)
}

func (s *AttachmentService) open(ctx context.Context, a *domain.Attachment) (*ports.BlobDownload, error) {
	dl, err := s.blobs.Download(ctx, a.FileName)
	if err != nil {
		return nil, err
	}
	if dl.FileName == "" {
		dl.FileName = domain.OriginalFileName(a.FileName)
	}
	if dl.Checksum == "" {
		dl.Checksum = a.Checksum
	}
	return dl, nil
}

// Delete removes an attachment's blob and row. Only an admin or the owner of
// the parent task may delete.
func (s *AttachmentService) Delete(ctx context.Context, caller domain.Caller, taskID, attachmentID int64) error {
	a, err := s.attachments.FindByID(ctx, attachmentID)
	if err != nil {
		return err
	}
	if a.TaskID != taskID {
		return domain.ErrAttachmentNotFound
	}

	task := a.Task
	if task == nil {
		if task, err = s.tasks.FindByID(ctx, taskID); err != nil {
			return err
		}
	}
	if err := authorize(s.permissions.CanEditAsAdminOrCreator(ctx, caller, task.OwnerID)); err != nil {
		return err
	}

	existed, err := s.blobs.Delete(ctx, a.FileName)
	if err != nil {
		return err
	}
	if !existed {
		s.logger.Warn().Str("blob", a.FileName).Msg("attachment blob already gone")
	}
	if err := s.attachments.Delete(ctx, attachmentID); err != nil {
		return err
	}

	recordActivity(ctx, s.activity, s.logger, taskID, "attachment", attachmentID, domain.ActionDeleted, caller.ID)
	return nil
}

// baseName strips any client-side directory from an uploaded file name.
func baseName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), `\`, "/")
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return base
}
