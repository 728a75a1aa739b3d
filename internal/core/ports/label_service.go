package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type LabelService interface {
	CreateLabel(ctx context.Context, name, color string) (*domain.Label, error)
	ListLabels(ctx context.Context) ([]domain.Label, error)
	DeleteLabel(ctx context.Context, id int64) error

	AssignLabel(ctx context.Context, caller domain.Caller, taskID, labelID int64) error
	UnassignLabel(ctx context.Context, caller domain.Caller, taskID, labelID int64) error
	ListTaskLabels(ctx context.Context, taskID int64) ([]domain.Label, error)
}
