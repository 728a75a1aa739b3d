package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

type CommentService struct {
	comments    ports.CommentRepository
	tasks       ports.TaskRepository
	activity    ports.ActivityRepository
	identity    ports.IdentityGateway
	permissions ports.PermissionEvaluator
	logger      zerolog.Logger
}

func NewCommentService(
	comments ports.CommentRepository,
	tasks ports.TaskRepository,
	activity ports.ActivityRepository,
	identity ports.IdentityGateway,
	permissions ports.PermissionEvaluator,
	logger zerolog.Logger,
) *CommentService {
	return &CommentService{
		comments:    comments,
		tasks:       tasks,
		activity:    activity,
		identity:    identity,
		permissions: permissions,
		logger:      logger,
	}
}

// CreateComment adds a comment authored by the caller to an existing task.
func (s *CommentService) CreateComment(ctx context.Context, caller domain.Caller, taskID int64, content string) (*domain.Comment, error) {
	authorID, err := s.identity.CurrentUserID(caller)
	if err != nil {
		return nil, err
	}
	if err := requireTask(ctx, s.tasks, taskID); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		s.logger.Error().Err(err).Int64("task_id", taskID).Msg("failed to create comment")
		return nil, err
	}

	recordActivity(ctx, s.activity, s.logger, taskID, "comment", c.ID, domain.ActionCreated, authorID)
	return c, nil
}

// ListComments returns a page of a task's comments, newest first, each with
// its author's profile when the identity provider could resolve it.
func (s *CommentService) ListComments(ctx context.Context, input ports.ListCommentsInput) (*ports.CommentPage, error) {
	page, size, err := pageParams(input.PageNumber, input.PageSize, defaultCommentPageSize)
	if err != nil {
		return nil, err
	}
	if err := requireTask(ctx, s.tasks, input.TaskID); err != nil {
		return nil, err
	}

	comments, total, err := s.comments.ListForTask(ctx, input.TaskID, page, size)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	profiles := s.identity.FetchUsers(ctx, authorIDs)

	items := make([]ports.CommentView, 0, len(comments))
	for _, c := range comments {
		items = append(items, ports.CommentView{Comment: c, Author: profiles[c.AuthorID]})
	}

	return &ports.CommentPage{
		Items:      items,
		TotalCount: total,
		PageNumber: page,
		PageSize:   size,
	}, nil
}

// UpdateComment replaces a comment's content. Only an admin or the author may edit.
func (s *CommentService) UpdateComment(ctx context.Context, caller domain.Caller, id int64, content string) error {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(s.permissions.CanEditAsAdminOrCreator(ctx, caller, c.AuthorID)); err != nil {
		return err
	}
	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		return err
	}
	recordActivity(ctx, s.activity, s.logger, c.TaskID, "comment", id, domain.ActionUpdated, caller.ID)
	return nil
}

// DeleteComment removes a comment. Only an admin or the author may delete.
func (s *CommentService) DeleteComment(ctx context.Context, caller domain.Caller, id int64) error {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(s.permissions.CanEditAsAdminOrCreator(ctx, caller, c.AuthorID)); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	recordActivity(ctx, s.activity, s.logger, c.TaskID, "comment", id, domain.ActionDeleted, caller.ID)
	return nil
}
