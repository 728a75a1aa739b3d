package ports

import (
	"context"
	"io"

	"github.com/taskflow/taskboard/internal/core/domain"
)

// UploadAttachmentInput describes an uploaded file. Size is the declared
// size from the multipart header and is validated before any I/O.
type UploadAttachmentInput struct {
	TaskID      int64
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type AttachmentService interface {
	Upload(ctx context.Context, caller domain.Caller, input UploadAttachmentInput) (*domain.Attachment, error)
	List(ctx context.Context, taskID int64) ([]*domain.Attachment, error)
	Download(ctx context.Context, caller domain.Caller, taskID, attachmentID int64) (*BlobDownload, error)
	// DownloadFile opens an attachment addressed by the stored name in its file URL.
	DownloadFile(ctx context.Context, caller domain.Caller, storedName string) (*BlobDownload, error)
	Delete(ctx context.Context, caller domain.Caller, taskID, attachmentID int64) error
}
