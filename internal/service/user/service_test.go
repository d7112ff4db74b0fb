package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchnotify/notifier-api/internal/model"
	apperrors "github.com/watchnotify/notifier-api/pkg/errors"
)

type memoryUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *memoryUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return user, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *memoryUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepo) Update(ctx context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NotFound("user", nil)
	}
	r.users[user.ID] = user
	return nil
}

func (r *memoryUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.NotFound("user", nil)
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) List(ctx context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryUserRepo) ListActive(ctx context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range r.users {
		if u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *memoryUserRepo) ListActiveWithPreferences(ctx context.Context, tags []string) ([]*model.User, error) {
	return nil, nil
}

func (r *memoryUserRepo) ListActiveWithPreferencesAndEmail(ctx context.Context, tags []string) ([]*model.User, error) {
	return nil, nil
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo)

	_, err := svc.CreateUser(context.Background(), &model.User{
		FirstName: "Nina",
		LastName:  "Collector",
		Email:     "nina@example.com",
		IsActive:  true,
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), &model.User{
		FirstName: "Nina",
		LastName:  "Duplicate",
		Email:     "nina@example.com",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "nina@example.com")
}

func TestCreateAndGetUser(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo)

	created, err := svc.CreateUser(context.Background(), &model.User{
		FirstName: "Omar",
		LastName:  "Collector",
		Email:     "omar@example.com",
		IsActive:  true,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	byID, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "omar@example.com", byID.Email)

	byEmail, err := svc.GetUserByEmail(context.Background(), "omar@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
}

func TestListActiveUsersFiltersInactive(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo)

	_, err := svc.CreateUser(context.Background(), &model.User{
		FirstName: "Pia", LastName: "Active", Email: "pia@example.com", IsActive: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), &model.User{
		FirstName: "Quinn", LastName: "Dormant", Email: "quinn@example.com", IsActive: false,
	})
	require.NoError(t, err)

	active, err := svc.ListActiveUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "pia@example.com", active[0].Email)
}

func TestDeleteUser(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo)

	created, err := svc.CreateUser(context.Background(), &model.User{
		FirstName: "Rita", LastName: "Gone", Email: "rita@example.com", IsActive: true,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), created.ID))

	_, err = svc.GetUser(context.Background(), created.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
