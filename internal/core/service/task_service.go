package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

const idempotencyScopeTasks = "tasks"

// TaskServiceDeps groups the collaborators of TaskService.
// Idempotency and Activity may be nil.
type TaskServiceDeps struct {
	Tasks       ports.TaskRepository
	Categories  ports.CategoryRepository
	Attachments ports.AttachmentRepository
	Blobs       ports.BlobStore
	Activity    ports.ActivityRepository
	Idempotency ports.IdempotencyStore
	Identity    ports.IdentityGateway
	Permissions ports.PermissionEvaluator
}

type TaskService struct {
	deps   TaskServiceDeps
	logger zerolog.Logger
}

func NewTaskService(deps TaskServiceDeps, logger zerolog.Logger) *TaskService {
	return &TaskService{deps: deps, logger: logger}
}

// CreateTask creates a task owned by the caller. If an idempotency key is
// provided and already seen, the previously created task is returned without
// side effects.
func (s *TaskService) CreateTask(ctx context.Context, caller domain.Caller, input ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
	ownerID, err := s.deps.Identity.CurrentUserID(caller)
	if err != nil {
		return nil, err
	}

	if replay := s.replay(ctx, ownerID, input.IdempotencyKey); replay != nil {
		return replay, nil
	}

	createdAt := now()
	due := createdAt.Add(domain.DefaultDueIn)
	if input.DueDate != nil {
		due = input.DueDate.UTC()
	}
	if !due.After(createdAt) {
		return nil, domain.NewValidationError("dueDate", "Due date must be in the future")
	}
	if err := s.requireCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		IsCompleted: input.IsCompleted,
		OwnerID:     ownerID,
		AssigneeID:  nonEmpty(input.AssigneeID),
		CategoryID:  input.CategoryID,
		DueDate:     due,
		CreatedAt:   createdAt,
	}
	if err := s.deps.Tasks.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	if input.IdempotencyKey != "" && s.deps.Idempotency != nil {
		if err := s.deps.Idempotency.Remember(ctx, idempotencyScope(ownerID), input.IdempotencyKey, task.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to remember idempotency key")
		}
	}

	recordActivity(ctx, s.deps.Activity, s.logger, task.ID, "task", task.ID, domain.ActionCreated, ownerID)
	s.logger.Info().Int64("task_id", task.ID).Str("owner_id", ownerID).Msg("task created")

	return &ports.CreateTaskResult{ID: task.ID, CreatedAt: task.CreatedAt}, nil
}

// replay returns the result of an earlier request made with the same key, or
// nil when the request must be processed. Store failures are not fatal.
func (s *TaskService) replay(ctx context.Context, ownerID, key string) *ports.CreateTaskResult {
	if key == "" || s.deps.Idempotency == nil {
		return nil
	}
	id, ok, err := s.deps.Idempotency.Lookup(ctx, idempotencyScope(ownerID), key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
		return nil
	}
	if !ok {
		return nil
	}
	existing, err := s.deps.Tasks.FindByID(ctx, id)
	if err != nil {
		// the task may have been deleted since; treat the key as fresh
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Int64("task_id", id).Msg("idempotent replay")
	return &ports.CreateTaskResult{ID: existing.ID, CreatedAt: existing.CreatedAt, AlreadyExisted: true}
}

// ListTasks returns a filtered, sorted page of tasks.
func (s *TaskService) ListTasks(ctx context.Context, input ports.ListTasksInput) (*ports.ListTasksResult, error) {
	page, size, err := pageParams(input.PageNumber, input.PageSize, defaultTaskPageSize)
	if err != nil {
		return nil, err
	}
	sortKey, err := domain.ParseTaskSortKey(input.SortBy)
	if err != nil {
		return nil, err
	}

	items, total, err := s.deps.Tasks.List(ctx, ports.ListTasksFilter{
		Search:      input.Search,
		IsCompleted: input.IsCompleted,
		AssigneeID:  input.AssigneeID,
		SortBy:      sortKey,
		Page:        page,
		PageSize:    size,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListTasksResult{
		Items:      items,
		TotalCount: total,
		PageNumber: page,
		PageSize:   size,
	}, nil
}

// GetTask loads a task and resolves its owner and assignee profiles. A profile
// the identity provider cannot resolve is left nil.
func (s *TaskService) GetTask(ctx context.Context, id int64) (*ports.TaskDetail, error) {
	task, err := s.deps.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := []string{task.OwnerID}
	if task.AssigneeID != nil {
		ids = append(ids, *task.AssigneeID)
	}
	profiles := s.deps.Identity.FetchUsers(ctx, ids)

	detail := &ports.TaskDetail{Task: task, Owner: profiles[task.OwnerID]}
	if task.AssigneeID != nil {
		detail.Assignee = profiles[*task.AssigneeID]
	}
	return detail, nil
}

// UpdateTask applies a partial update. Only an admin, the owner or the
// assignee may edit a task.
func (s *TaskService) UpdateTask(ctx context.Context, caller domain.Caller, id int64, input ports.UpdateTaskInput) error {
	task, err := s.deps.Tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(s.deps.Permissions.CanEditAsAdminOrCreatorOrAssignee(ctx, caller, task.OwnerID, task.AssigneeID)); err != nil {
		return err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return domain.NewValidationError("title", "Title is required")
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.IsCompleted != nil {
		task.IsCompleted = *input.IsCompleted
	}
	if input.AssigneeID != nil && *input.AssigneeID != "" {
		assignee := *input.AssigneeID
		task.AssigneeID = &assignee
	}
	if input.CategoryID != nil && *input.CategoryID != task.CategoryID {
		if err := s.requireCategory(ctx, *input.CategoryID); err != nil {
			return err
		}
		task.CategoryID = *input.CategoryID
		task.Category = nil
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate.UTC()
	}

	if err := s.deps.Tasks.Update(ctx, task); err != nil {
		s.logger.Error().Err(err).Int64("task_id", id).Msg("failed to update task")
		return err
	}

	recordActivity(ctx, s.deps.Activity, s.logger, id, "task", id, domain.ActionUpdated, caller.ID)
	return nil
}

// DeleteTask removes a task with its comments, attachments and label links.
// Attachment blobs are removed afterwards on a best-effort basis.
func (s *TaskService) DeleteTask(ctx context.Context, caller domain.Caller, id int64) error {
	task, err := s.deps.Tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(s.deps.Permissions.CanEditAsAdminOrCreator(ctx, caller, task.OwnerID)); err != nil {
		return err
	}

	attachments, err := s.deps.Attachments.ListForTask(ctx, id)
	if err != nil {
		return err
	}

	if err := s.deps.Tasks.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("task_id", id).Msg("failed to delete task")
		return err
	}

	for _, a := range attachments {
		if _, err := s.deps.Blobs.Delete(ctx, a.FileName); err != nil {
			s.logger.Warn().Err(err).Str("blob", a.FileName).Int64("task_id", id).Msg("orphaned attachment blob")
		}
	}

	recordActivity(ctx, s.deps.Activity, s.logger, id, "task", id, domain.ActionDeleted, caller.ID)
	s.logger.Info().Int64("task_id", id).Int("attachments", len(attachments)).Msg("task deleted")
	return nil
}

// ListActivity returns the most recent audit entries of a task.
func (s *TaskService) ListActivity(ctx context.Context, taskID int64) ([]domain.Activity, error) {
	if err := requireTask(ctx, s.deps.Tasks, taskID); err != nil {
		return nil, err
	}
	if s.deps.Activity == nil {
		return []domain.Activity{}, nil
	}
	return s.deps.Activity.ListForTask(ctx, taskID, activityLimit)
}

func (s *TaskService) requireCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError("categoryId", "CategoryId must be a valid positive integer")
	}
	ok, err := s.deps.Categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewValidationError("categoryId", "Category does not exist")
	}
	return nil
}

// requireTask returns ErrTaskNotFound unless the task exists.
func requireTask(ctx context.Context, tasks ports.TaskRepository, id int64) error {
	ok, err := tasks.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrTaskNotFound
	}
	return nil
}

// idempotencyScope keys idempotency records per owner so two users cannot
// collide on the same header value.
func idempotencyScope(ownerID string) string {
	return idempotencyScopeTasks + ":" + ownerID
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
