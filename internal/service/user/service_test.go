package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository/memory"
	apperrors "github.com/doctorsportal/booking-api/pkg/errors"
)

func seedUser(t *testing.T, store *memory.Store, email string) {
	t.Helper()
	require.NoError(t, store.Users().Upsert(context.Background(), &model.User{Email: email, Name: "Test"}))
}

func TestPromoteGrantsAdmin(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Users())
	ctx := context.Background()
	seedUser(t, store, "pat@example.com")

	isAdmin, err := svc.IsAdmin(ctx, "pat@example.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, svc.Promote(ctx, "pat@example.com"))

	isAdmin, err = svc.IsAdmin(ctx, "pat@example.com")
	require.NoError(t, err)
	assert.True(t, isAdmin)
	assert.NoError(t, svc.Authorize(ctx, "pat@example.com", model.RoleAdmin))
}

func TestPromoteUnknownUser(t *testing.T) {
	svc := NewService(memory.NewStore().Users())

	err := svc.Promote(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestIsAdminUnknownUserIsFalse(t *testing.T) {
	svc := NewService(memory.NewStore().Users())

	isAdmin, err := svc.IsAdmin(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestAuthorizeDeniesNonAdmin(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Users())
	ctx := context.Background()
	seedUser(t, store, "pat@example.com")

	err := svc.Authorize(ctx, "pat@example.com", model.RoleAdmin)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestAuthorizeDeniesUnknownUser(t *testing.T) {
	svc := NewService(memory.NewStore().Users())

	err := svc.Authorize(context.Background(), "nobody@example.com", model.RoleAdmin)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestAuthorizeReflectsRevocationImmediately(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Users())
	ctx := context.Background()
	seedUser(t, store, "pat@example.com")

	require.NoError(t, svc.Promote(ctx, "pat@example.com"))
	require.NoError(t, svc.Authorize(ctx, "pat@example.com", model.RoleAdmin))

	require.NoError(t, store.Users().UpdateRole(ctx, "pat@example.com", model.RolePatient))
	err := svc.Authorize(ctx, "pat@example.com", model.RoleAdmin)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestListUsers(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store.Users())
	seedUser(t, store, "a@example.com")
	seedUser(t, store, "b@example.com")

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
