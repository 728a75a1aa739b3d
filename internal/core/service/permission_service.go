package service

import (
	"context"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

// PermissionService implements ports.PermissionEvaluator. Each decision is a
// flat OR of the admin role, ownership and (optionally) assignment.
type PermissionService struct {
	identity ports.IdentityGateway
}

func NewPermissionService(identity ports.IdentityGateway) *PermissionService {
	return &PermissionService{identity: identity}
}

// CanEditAsAdminOrCreator reports whether the caller is an admin or ownerID.
func (p *PermissionService) CanEditAsAdminOrCreator(_ context.Context, caller domain.Caller, ownerID string) (bool, error) {
	userID, isAdmin, err := p.resolve(caller)
	if err != nil {
		return false, err
	}
	return isAdmin || userID == ownerID, nil
}

// CanEditAsAdminOrCreatorOrAssignee additionally admits the task assignee.
func (p *PermissionService) CanEditAsAdminOrCreatorOrAssignee(_ context.Context, caller domain.Caller, ownerID string, assigneeID *string) (bool, error) {
	userID, isAdmin, err := p.resolve(caller)
	if err != nil {
		return false, err
	}
	isAssignee := assigneeID != nil && *assigneeID == userID
	return isAdmin || userID == ownerID || isAssignee, nil
}

func (p *PermissionService) resolve(caller domain.Caller) (string, bool, error) {
	userID, err := p.identity.CurrentUserID(caller)
	if err != nil {
		return "", false, err
	}
	roles, err := p.identity.CurrentUserRoles(caller)
	if err != nil {
		return "", false, err
	}
	_, isAdmin := roles[domain.RoleAdmin]
	return userID, isAdmin, nil
}

// authorize turns a permission decision into an error: ErrForbidden on denial,
// the evaluator's error when the decision could not be made.
func authorize(allowed bool, err error) error {
	if err != nil {
		return err
	}
	if !allowed {
		return domain.ErrForbidden
	}
	return nil
}
