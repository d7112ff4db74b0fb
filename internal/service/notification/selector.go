package notification

import (
	"context"
	"fmt"

	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/repository"
)

// Selector resolves the concrete set of target users for a dispatch
// request. An empty result set is valid; dispatch becomes a no-op for
// the release but still marks it notified.
type Selector struct {
	users repository.UserRepository
}

func NewSelector(users repository.UserRepository) *Selector {
	return &Selector{users: users}
}

// SelectTargets applies the targeting rules in priority order:
// category filters first, then brand filters (brand targeting is an
// email campaign, so it also requires email opt-in), otherwise all
// active users. Channel opt-ins are filtered downstream per user.
func (s *Selector) SelectTargets(ctx context.Context, req *model.DispatchRequest) ([]*model.User, error) {
	switch {
	case len(req.Categories) > 0:
		users, err := s.users.ListActiveWithPreferences(ctx, req.Categories)
		if err != nil {
			return nil, fmt.Errorf("failed to select users by categories: %w", err)
		}
		return users, nil
	case len(req.Brands) > 0:
		users, err := s.users.ListActiveWithPreferencesAndEmail(ctx, req.Brands)
		if err != nil {
			return nil, fmt.Errorf("failed to select users by brands: %w", err)
		}
		return users, nil
	default:
		users, err := s.users.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to select active users: %w", err)
		}
		return users, nil
	}
}
