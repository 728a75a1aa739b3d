package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

type LabelService struct {
	labels      ports.LabelRepository
	tasks       ports.TaskRepository
	activity    ports.ActivityRepository
	permissions ports.PermissionEvaluator
	logger      zerolog.Logger
}

func NewLabelService(
	labels ports.LabelRepository,
	tasks ports.TaskRepository,
	activity ports.ActivityRepository,
	permissions ports.PermissionEvaluator,
	logger zerolog.Logger,
) *LabelService {
	return &LabelService{
		labels:      labels,
		tasks:       tasks,
		activity:    activity,
		permissions: permissions,
		logger:      logger,
	}
}

// CreateLabel stores a label. An empty color defaults to white.
func (s *LabelService) CreateLabel(ctx context.Context, name, color string) (*domain.Label, error) {
	if color == "" {
		color = domain.DefaultLabelColor
	}

	l := &domain.Label{Name: strings.TrimSpace(name), Color: color}
	if err := s.labels.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LabelService) ListLabels(ctx context.Context) ([]domain.Label, error) {
	return s.labels.List(ctx)
}

// DeleteLabel removes a label and its task links.
func (s *LabelService) DeleteLabel(ctx context.Context, id int64) error {
	ok, err := s.labels.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrLabelNotFound
	}
	return s.labels.Delete(ctx, id)
}

// AssignLabel links a label to a task. Assigning an existing link is a no-op.
func (s *LabelService) AssignLabel(ctx context.Context, caller domain.Caller, taskID, labelID int64) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	ok, err := s.labels.Exists(ctx, labelID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrLabelNotFound
	}
	if err := authorize(s.permissions.CanEditAsAdminOrCreatorOrAssignee(ctx, caller, task.OwnerID, task.AssigneeID)); err != nil {
		return err
	}

	created, err := s.labels.Assign(ctx, taskID, labelID)
	if err != nil {
		return err
	}
	if created {
		recordActivity(ctx, s.activity, s.logger, taskID, "label", labelID, domain.ActionCreated, caller.ID)
	}
	return nil
}

// UnassignLabel removes a label link. A missing task or link is a no-op.
func (s *LabelService) UnassignLabel(ctx context.Context, caller domain.Caller, taskID, labelID int64) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := authorize(s.permissions.CanEditAsAdminOrCreatorOrAssignee(ctx, caller, task.OwnerID, task.AssigneeID)); err != nil {
		return err
	}

	removed, err := s.labels.Unassign(ctx, taskID, labelID)
	if err != nil {
		return err
	}
	if removed {
		recordActivity(ctx, s.activity, s.logger, taskID, "label", labelID, domain.ActionDeleted, caller.ID)
	}
	return nil
}

func (s *LabelService) ListTaskLabels(ctx context.Context, taskID int64) ([]domain.Label, error) {
	if err := requireTask(ctx, s.tasks, taskID); err != nil {
		return nil, err
	}
	return s.labels.ListForTask(ctx, taskID)
}
