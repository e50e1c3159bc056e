package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/internal/modules/user/dto"
	"anoa.com/qaforum/pkg/apperror"
	"anoa.com/qaforum/pkg/identity"
)

type mockUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperror.ErrNotFound
}

func (m *mockUserRepo) UpdateBio(_ context.Context, id uuid.UUID, bio string) error {
	u, ok := m.users[id]
	if !ok {
		return apperror.NotFound("user")
	}
	u.Bio = &bio
	return nil
}

func TestGetMeAndUpdateBio(t *testing.T) {
	id := uuid.New()
	repo := &mockUserRepo{users: map[uuid.UUID]*entity.User{id: {ID: id, Name: "Ana", Email: "ana@example.com"}}}
	svc := NewUserService(repo)
	caller := identity.New(id)

	me, err := svc.GetMe(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.Name)
	assert.Empty(t, me.Bio)

	me, err = svc.UpdateBio(context.Background(), caller, dto.UpdateBioRequest{Bio: " <b>Gopher</b> "})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", me.Bio)
}

func TestGetMe_Errors(t *testing.T) {
	svc := NewUserService(&mockUserRepo{users: map[uuid.UUID]*entity.User{}})

	_, err := svc.GetMe(context.Background(), identity.Anonymous())
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.GetMe(context.Background(), identity.New(uuid.New()))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
