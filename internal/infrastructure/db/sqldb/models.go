package sqldb

import (
	"time"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type categoryRow struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:30;not null"`
	Description string `gorm:"size:200;not null"`
}

func (categoryRow) TableName() string { return "categories" }

func (r categoryRow) toDomain() domain.Category {
	return domain.Category{ID: r.ID, Name: r.Name, Description: r.Description}
}

type labelRow struct {
	ID    int64  `gorm:"primaryKey"`
	Name  string `gorm:"size:25;not null"`
	Color string `gorm:"size:7;not null;default:'#ffffff'"`
}

func (labelRow) TableName() string { return "labels" }

func (r labelRow) toDomain() domain.Label {
	return domain.Label{ID: r.ID, Name: r.Name, Color: r.Color}
}

type taskRow struct {
	ID          int64     `gorm:"primaryKey"`
	Title       string    `gorm:"size:200;not null"`
	Description string    `gorm:"size:1000"`
	IsCompleted bool      `gorm:"not null;default:false"`
	OwnerID     string    `gorm:"size:64;not null;index:idx_tasks_owner_id"`
	AssigneeID  *string   `gorm:"size:64;index:idx_tasks_assignee_id"`
	CategoryID  int64     `gorm:"not null;index:idx_tasks_category_id"`
	DueDate     time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`

	// Filled by the list query's count subqueries.
	AttachmentCount int `gorm:"->;-:migration"`
	CommentCount    int `gorm:"->;-:migration"`
}

func (taskRow) TableName() string { return "tasks" }

func (r taskRow) toDomain() *domain.Task {
	return &domain.Task{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		IsCompleted:     r.IsCompleted,
		OwnerID:         r.OwnerID,
		AssigneeID:      r.AssigneeID,
		CategoryID:      r.CategoryID,
		DueDate:         r.DueDate.UTC(),
		CreatedAt:       r.CreatedAt.UTC(),
		AttachmentCount: r.AttachmentCount,
		CommentCount:    r.CommentCount,
	}
}

func taskRowFrom(t *domain.Task) taskRow {
	return taskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		OwnerID:     t.OwnerID,
		AssigneeID:  t.AssigneeID,
		CategoryID:  t.CategoryID,
		DueDate:     t.DueDate.UTC(),
		CreatedAt:   t.CreatedAt.UTC(),
	}
}

type taskLabelRow struct {
	TaskID  int64 `gorm:"primaryKey;autoIncrement:false;index:idx_task_labels_task_id"`
	LabelID int64 `gorm:"primaryKey;autoIncrement:false"`
}

func (taskLabelRow) TableName() string { return "task_labels" }

type commentRow struct {
	ID        int64     `gorm:"primaryKey"`
	TaskID    int64     `gorm:"not null;index:idx_task_comments_task_id"`
	AuthorID  string    `gorm:"size:64;not null"`
	Content   string    `gorm:"size:1000;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (commentRow) TableName() string { return "task_comments" }

func (r commentRow) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        r.ID,
		TaskID:    r.TaskID,
		AuthorID:  r.AuthorID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type attachmentRow struct {
	ID         int64     `gorm:"primaryKey"`
	TaskID     int64     `gorm:"not null;index:idx_task_attachments_task_id"`
	FileName   string    `gorm:"size:300;not null;index"`
	FileURL    string    `gorm:"size:1000;not null"`
	Size       int64     `gorm:"not null"`
	Checksum   string    `gorm:"size:128"`
	UploadedAt time.Time `gorm:"not null"`
}

func (attachmentRow) TableName() string { return "task_attachments" }

func (r attachmentRow) toDomain() *domain.Attachment {
	return &domain.Attachment{
		ID:         r.ID,
		TaskID:     r.TaskID,
		FileName:   r.FileName,
		FileURL:    r.FileURL,
		Size:       r.Size,
		Checksum:   r.Checksum,
		UploadedAt: r.UploadedAt.UTC(),
	}
}
