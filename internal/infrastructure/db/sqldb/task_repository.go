package sqldb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

const taskCountColumns = "tasks.*, " +
	"(SELECT COUNT(*) FROM task_attachments WHERE task_attachments.task_id = tasks.id) AS attachment_count, " +
	"(SELECT COUNT(*) FROM task_comments WHERE task_comments.task_id = tasks.id) AS comment_count"

// TaskRepository implements ports.TaskRepository with gorm.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	row := taskRowFrom(t)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	t.ID = row.ID
	return nil
}

// FindByID loads a task together with its category and labels.
func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	var row taskRow
	err := r.db.WithContext(ctx).Select(taskCountColumns).Where("tasks.id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}

	tasks := []*domain.Task{row.toDomain()}
	if err := r.attachRelations(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks[0], nil
}

func (r *TaskRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&taskRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count task: %w", err)
	}
	return n > 0, nil
}

// List applies filters, the allow-listed sort and offset pagination.
func (r *TaskRepository) List(ctx context.Context, f ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	order, err := taskOrder(f.SortBy)
	if err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Model(&taskRow{})
	if f.Search != "" {
		q = q.Where(`LOWER(tasks.title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(f.Search))+"%")
	}
	if f.IsCompleted != nil {
		q = q.Where("tasks.is_completed = ?", *f.IsCompleted)
	}
	if f.AssigneeID != "" {
		q = q.Where("tasks.assignee_id = ?", f.AssigneeID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	var rows []taskRow
	err = q.Select(taskCountColumns).
		Order(order).
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toDomain())
	}
	if err := r.attachRelations(ctx, tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	row := taskRowFrom(t)
	res := r.db.WithContext(ctx).Model(&taskRow{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"title":        row.Title,
		"description":  row.Description,
		"is_completed": row.IsCompleted,
		"assignee_id":  row.AssigneeID,
		"category_id":  row.CategoryID,
		"due_date":     row.DueDate,
	})
	if res.Error != nil {
		return fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// Delete removes the task and its comments, attachments and label links in
// one transaction.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&commentRow{}).Error; err != nil {
			return fmt.Errorf("delete task comments: %w", err)
		}
		if err := tx.Where("task_id = ?", id).Delete(&attachmentRow{}).Error; err != nil {
			return fmt.Errorf("delete task attachments: %w", err)
		}
		if err := tx.Where("task_id = ?", id).Delete(&taskLabelRow{}).Error; err != nil {
			return fmt.Errorf("delete task labels: %w", err)
		}
		res := tx.Delete(&taskRow{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrTaskNotFound
		}
		return nil
	})
}

// attachRelations fills Category and Labels for a batch of tasks with one
// query each.
func (r *TaskRepository) attachRelations(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	taskIDs := make([]int64, 0, len(tasks))
	categoryIDs := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
		categoryIDs = append(categoryIDs, t.CategoryID)
	}

	var categories []categoryRow
	if err := r.db.WithContext(ctx).Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
		return fmt.Errorf("load task categories: %w", err)
	}
	byID := make(map[int64]domain.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c.toDomain()
	}

	var links []struct {
		TaskID int64
		ID     int64
		Name   string
		Color  string
	}
	err := r.db.WithContext(ctx).
		Table("task_labels").
		Select("task_labels.task_id, labels.id, labels.name, labels.color").
		Joins("JOIN labels ON labels.id = task_labels.label_id").
		Where("task_labels.task_id IN ?", taskIDs).
		Order("labels.id").
		Scan(&links).Error
	if err != nil {
		return fmt.Errorf("load task labels: %w", err)
	}
	labels := make(map[int64][]domain.Label, len(tasks))
	for _, l := range links {
		labels[l.TaskID] = append(labels[l.TaskID], domain.Label{ID: l.ID, Name: l.Name, Color: l.Color})
	}

	for _, t := range tasks {
		if c, ok := byID[t.CategoryID]; ok {
			c := c
			t.Category = &c
		}
		t.Labels = labels[t.ID]
		if t.Labels == nil {
			t.Labels = []domain.Label{}
		}
	}
	return nil
}

// taskOrder maps a sort key to its ORDER BY clause. Ties break on id.
func taskOrder(key domain.TaskSortKey) (string, error) {
	switch key {
	case "", domain.SortByID:
		return "tasks.id ASC", nil
	case domain.SortByTitle:
		return "tasks.title ASC, tasks.id ASC", nil
	case domain.SortByDueDate:
		return "tasks.due_date ASC, tasks.id ASC", nil
	case domain.SortByCreatedAt:
		return "tasks.created_at ASC, tasks.id ASC", nil
	}
	return "", domain.NewValidationError("sortBy", "sortBy must be one of: id, title, duedate, createdat")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
