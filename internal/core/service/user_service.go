package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

type UserService struct {
	identity ports.IdentityGateway
	logger   zerolog.Logger
}

func NewUserService(identity ports.IdentityGateway, logger zerolog.Logger) *UserService {
	return &UserService{identity: identity, logger: logger}
}

// ListUsers returns the identity provider's user directory.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	users, err := s.identity.ListAllUsers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, err
	}
	return users, nil
}

// CurrentUser resolves the caller's own profile.
func (s *UserService) CurrentUser(ctx context.Context, caller domain.Caller) (*domain.UserProfile, error) {
	id, err := s.identity.CurrentUserID(caller)
	if err != nil {
		return nil, err
	}
	return s.identity.FetchUser(ctx, id)
}
