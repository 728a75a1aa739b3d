package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type ListCommentsInput struct {
	TaskID     int64
	PageNumber int
	PageSize   int
}

// CommentView pairs a comment with its author's profile (nil when unknown).
type CommentView struct {
	Comment *domain.Comment
	Author  *domain.UserProfile
}

type CommentPage struct {
	Items      []CommentView
	TotalCount int64
	PageNumber int
	PageSize   int
}

type CommentService interface {
	CreateComment(ctx context.Context, caller domain.Caller, taskID int64, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, input ListCommentsInput) (*CommentPage, error)
	UpdateComment(ctx context.Context, caller domain.Caller, id int64, content string) error
	DeleteComment(ctx context.Context, caller domain.Caller, id int64) error
}
