package domain

import (
	"strings"
	"time"
)

// MaxAttachmentSize is the largest accepted upload (100 MiB).
const MaxAttachmentSize int64 = 100 * 1024 * 1024

// Attachment references a blob stored for a task. FileName is the stored
// blob name: "<generated id>_<original file name>".
type Attachment struct {
	ID         int64
	TaskID     int64
	FileName   string
	FileURL    string
	Size       int64
	Checksum   string
	UploadedAt time.Time

	// Task is populated when the attachment is loaded together with its parent.
	Task *Task
}

// OriginalFileName recovers the uploaded file name from a stored blob name by
// splitting on the first underscore. Names without a prefix are returned as-is.
func OriginalFileName(stored string) string {
	if _, name, ok := strings.Cut(stored, "_"); ok && name != "" {
		return name
	}
	return stored
}
