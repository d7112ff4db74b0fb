package release

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/repository"
)

const (
	defaultCurrency = "USD"

	cacheTTL     = 5 * time.Minute
	cacheCleanup = 10 * time.Minute
)

type Service interface {
	CreateRelease(ctx context.Context, release *model.Release) (*model.Release, error)
	GetRelease(ctx context.Context, id uuid.UUID) (*model.Release, error)
	UpdateRelease(ctx context.Context, release *model.Release) (*model.Release, error)
	DeleteRelease(ctx context.Context, id uuid.UUID) error
	ListReleases(ctx context.Context) ([]*model.Release, error)
	ListUnnotified(ctx context.Context) ([]*model.Release, error)
	ListUpcoming(ctx context.Context) ([]*model.Release, error)
	ListLimitedEdition(ctx context.Context) ([]*model.Release, error)
	ListByBrand(ctx context.Context, brand string) ([]*model.Release, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Release, error)
	MarkNotified(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  repository.ReleaseRepository
	cache *cache.Cache
}

func NewService(repo repository.ReleaseRepository) Service {
	return &service{
		repo:  repo,
		cache: cache.New(cacheTTL, cacheCleanup),
	}
}

func (s *service) CreateRelease(ctx context.Context, release *model.Release) (*model.Release, error) {
	if release.Currency == "" {
		release.Currency = defaultCurrency
	}

	if err := s.repo.Create(ctx, release); err != nil {
		return nil, fmt.Errorf("failed to create release: %w", err)
	}

	return release, nil
}

func (s *service) GetRelease(ctx context.Context, id uuid.UUID) (*model.Release, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return cached.(*model.Release), nil
	}

	release, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(id.String(), release, cache.DefaultExpiration)
	return release, nil
}

func (s *service) UpdateRelease(ctx context.Context, release *model.Release) (*model.Release, error) {
	if release.Currency == "" {
		release.Currency = defaultCurrency
	}

	if err := s.repo.Update(ctx, release); err != nil {
		return nil, err
	}

	s.cache.Delete(release.ID.String())
	return release, nil
}

func (s *service) DeleteRelease(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(id.String())
	return nil
}

func (s *service) ListReleases(ctx context.Context) ([]*model.Release, error) {
	return s.repo.List(ctx)
}

func (s *service) ListUnnotified(ctx context.Context) ([]*model.Release, error) {
	return s.repo.ListUnnotified(ctx)
}

func (s *service) ListUpcoming(ctx context.Context) ([]*model.Release, error) {
	return s.repo.ListUpcoming(ctx, time.Now())
}

func (s *service) ListLimitedEdition(ctx context.Context) ([]*model.Release, error) {
	return s.repo.ListLimitedEdition(ctx)
}

func (s *service) ListByBrand(ctx context.Context, brand string) ([]*model.Release, error) {
	return s.repo.ListByBrand(ctx, brand)
}

func (s *service) ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Release, error) {
	return s.repo.ListByDateRange(ctx, start, end)
}

// MarkNotified is the administrative override: it flips the notified pair
// without dispatching anything.
func (s *service) MarkNotified(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.MarkNotified(ctx, id, time.Now()); err != nil {
		return err
	}

	s.cache.Delete(id.String())
	return nil
}
