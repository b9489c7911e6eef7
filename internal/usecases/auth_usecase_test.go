package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"widgetbot/internal/entities"
)

type memoryUserStore struct {
	users map[string]entities.User
}

func (s *memoryUserStore) Create(ctx context.Context, u *entities.User) error {
	u.ID = len(s.users) + 1
	s.users[u.Username] = *u
	return nil
}

func (s *memoryUserStore) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	if u, ok := s.users[username]; ok {
		return &u, nil
	}
	return nil, nil
}

func TestEnsureAdminAndLogin(t *testing.T) {
	store := &memoryUserStore{users: map[string]entities.User{}}
	uc := NewAuthUsecase(store, "secret")
	ctx := context.Background()

	require.NoError(t, uc.EnsureAdmin(ctx, "root", "root"))
	require.Len(t, store.users, 1)
	assert.Equal(t, "admin", store.users["root"].Role)

	// Second call is a no-op.
	require.NoError(t, uc.EnsureAdmin(ctx, "root", "different"))
	require.Len(t, store.users, 1)

	token, err := uc.Login(ctx, "root", "root")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = uc.Login(ctx, "root", "wrong")
	assert.Error(t, err)

	_, err = uc.Login(ctx, "nobody", "root")
	assert.Error(t, err)
}
