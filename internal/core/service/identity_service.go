package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

// maxProfileLookups bounds concurrent identity provider calls per request.
const maxProfileLookups = 8

// IdentityService implements ports.IdentityGateway on top of a UserDirectory.
// Profiles are fetched on every call; nothing is cached.
type IdentityService struct {
	directory ports.UserDirectory
	logger    zerolog.Logger
}

func NewIdentityService(directory ports.UserDirectory, logger zerolog.Logger) *IdentityService {
	return &IdentityService{directory: directory, logger: logger}
}

// CurrentUserID returns the caller's identifier.
func (s *IdentityService) CurrentUserID(caller domain.Caller) (string, error) {
	if caller.ID == "" {
		return "", domain.ErrUnauthenticated
	}
	return caller.ID, nil
}

// CurrentUserRoles returns the caller's roles lower-cased, so membership
// checks are case-insensitive.
func (s *IdentityService) CurrentUserRoles(caller domain.Caller) (map[string]struct{}, error) {
	if caller.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	roles := make(map[string]struct{}, len(caller.Roles))
	for _, r := range caller.Roles {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" {
			roles[r] = struct{}{}
		}
	}
	return roles, nil
}

// FetchUser performs a single lookup against the identity provider.
func (s *IdentityService) FetchUser(ctx context.Context, id string) (*domain.UserProfile, error) {
	if id == "" {
		return nil, domain.ErrUserNotFound
	}
	u, err := s.directory.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", id, err)
	}
	return u, nil
}

// FetchUsers resolves a batch of ids concurrently. Duplicate and empty ids are
// skipped. A failed lookup leaves its id out of the result instead of failing
// the batch; cancelling ctx aborts lookups still in flight.
func (s *IdentityService) FetchUsers(ctx context.Context, ids []string) map[string]*domain.UserProfile {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	out := make(map[string]*domain.UserProfile, len(unique))
	if len(unique) == 0 {
		return out
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(maxProfileLookups)
	for _, id := range unique {
		g.Go(func() error {
			u, err := s.directory.GetUser(ctx, id)
			if err != nil {
				s.logger.Warn().Err(err).Str("user_id", id).Msg("profile lookup failed")
				return nil
			}
			mu.Lock()
			out[id] = u
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// ListAllUsers returns whatever single page the identity provider yields.
func (s *IdentityService) ListAllUsers(ctx context.Context) ([]domain.UserProfile, error) {
	users, err := s.directory.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
