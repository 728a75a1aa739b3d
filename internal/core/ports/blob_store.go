package ports

import (
	"context"
	"io"
	"time"
)

// BlobUpload describes a file to store under Name.
type BlobUpload struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// BlobObject is the result of a successful upload.
type BlobObject struct {
	Name       string
	URL        string
	Size       int64
	Checksum   string
	UploadedAt time.Time
}

// BlobDownload is an open blob. Callers must close Content.
type BlobDownload struct {
	Content     io.ReadCloser
	ContentType string
	FileName    string // original file name
	Size        int64
	Checksum    string
}

// BlobStore is opaque binary storage for attachment bytes.
type BlobStore interface {
	Upload(ctx context.Context, in BlobUpload) (*BlobObject, error)
	Download(ctx context.Context, name string) (*BlobDownload, error)
	// Delete reports whether a blob existed under name.
	Delete(ctx context.Context, name string) (bool, error)
}
