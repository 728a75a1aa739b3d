package sqldb

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type LabelRepository struct {
	db *gorm.DB
}

func NewLabelRepository(db *gorm.DB) *LabelRepository {
	return &LabelRepository{db: db}
}

func (r *LabelRepository) Create(ctx context.Context, l *domain.Label) error {
	row := labelRow{Name: l.Name, Color: l.Color}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create label: %w", err)
	}
	l.ID = row.ID
	return nil
}

func (r *LabelRepository) List(ctx context.Context) ([]domain.Label, error) {
	var rows []labelRow
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	out := make([]domain.Label, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *LabelRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&labelRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count label: %w", err)
	}
	return n > 0, nil
}

// Delete removes the label and every task link to it.
func (r *LabelRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("label_id = ?", id).Delete(&taskLabelRow{}).Error; err != nil {
			return fmt.Errorf("delete label links: %w", err)
		}
		res := tx.Delete(&labelRow{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete label: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrLabelNotFound
		}
		return nil
	})
}

// Assign inserts the link unless it already exists.
func (r *LabelRepository) Assign(ctx context.Context, taskID, labelID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&taskLabelRow{TaskID: taskID, LabelID: labelID})
	if res.Error != nil {
		return false, fmt.Errorf("assign label: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *LabelRepository) Unassign(ctx context.Context, taskID, labelID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("task_id = ? AND label_id = ?", taskID, labelID).
		Delete(&taskLabelRow{})
	if res.Error != nil {
		return false, fmt.Errorf("unassign label: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *LabelRepository) ListForTask(ctx context.Context, taskID int64) ([]domain.Label, error) {
	var rows []labelRow
	err := r.db.WithContext(ctx).
		Joins("JOIN task_labels ON task_labels.label_id = labels.id").
		Where("task_labels.task_id = ?", taskID).
		Order("labels.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list task labels: %w", err)
	}
	out := make([]domain.Label, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
