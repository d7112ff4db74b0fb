package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/repository"
	apperrors "github.com/watchnotify/notifier-api/pkg/errors"
)

type Service interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListActiveUsers(ctx context.Context) ([]*model.User, error)
	ListUsersWithPreferences(ctx context.Context, tags []string) ([]*model.User, error)
}

type service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) Service {
	return &service{repo: repo}
}

func (s *service) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	exists, err := s.repo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user email: %w", err)
	}
	if exists {
		return nil, apperrors.Validation(fmt.Sprintf("user with email %s already exists", user.Email), nil)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *service) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.repo.List(ctx)
}

func (s *service) ListActiveUsers(ctx context.Context) ([]*model.User, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) ListUsersWithPreferences(ctx context.Context, tags []string) ([]*model.User, error) {
	return s.repo.ListActiveWithPreferences(ctx, tags)
}
