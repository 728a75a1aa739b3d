package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]domain.UserProfile, error)
	CurrentUser(ctx context.Context, caller domain.Caller) (*domain.UserProfile, error)
}
