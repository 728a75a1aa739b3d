package ports

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
)

// UserDirectory is the external identity provider's user API.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*domain.UserProfile, error)
	ListUsers(ctx context.Context) ([]domain.UserProfile, error)
}

// IdentityGateway resolves the caller and user profiles.
type IdentityGateway interface {
	CurrentUserID(caller domain.Caller) (string, error)
	CurrentUserRoles(caller domain.Caller) (map[string]struct{}, error)
	FetchUser(ctx context.Context, id string) (*domain.UserProfile, error)
	// FetchUsers resolves ids concurrently. Ids whose lookup failed are absent from the result.
	FetchUsers(ctx context.Context, ids []string) map[string]*domain.UserProfile
	ListAllUsers(ctx context.Context) ([]domain.UserProfile, error)
}

// PermissionEvaluator answers edit/delete authorization questions.
// A non-nil error means the decision could not be made and the request must fail.
type PermissionEvaluator interface {
	CanEditAsAdminOrCreator(ctx context.Context, caller domain.Caller, ownerID string) (bool, error)
	CanEditAsAdminOrCreatorOrAssignee(ctx context.Context, caller domain.Caller, ownerID string, assigneeID *string) (bool, error)
}
