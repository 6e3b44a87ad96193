package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository/memory"
	"github.com/doctorsportal/booking-api/pkg/auth"
	apperrors "github.com/doctorsportal/booking-api/pkg/errors"
)

func newTestService(t *testing.T) (*Service, *memory.Store, auth.JWTService) {
	t.Helper()
	store := memory.NewStore()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return NewService(store.Users(), jwtSvc), store, jwtSvc
}

func TestUpsertUserIssuesToken(t *testing.T) {
	svc, store, jwtSvc := newTestService(t)
	ctx := context.Background()

	resp, err := svc.UpsertUser(ctx, "pat@example.com", "Pat")
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)

	claims, err := jwtSvc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", claims.Email)

	user, err := store.Users().GetByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, user.Role)
}

func TestUpsertUserPreservesRole(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertUser(ctx, "pat@example.com", "Pat")
	require.NoError(t, err)
	require.NoError(t, store.Users().UpdateRole(ctx, "pat@example.com", model.RoleAdmin))

	// Re-login must not demote the user back to patient.
	_, err = svc.UpsertUser(ctx, "pat@example.com", "Patricia")
	require.NoError(t, err)

	user, err := store.Users().GetByEmail(ctx, "pat@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Equal(t, "Patricia", user.Name)
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "pat@example.com",
		Name:     "Pat",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "pat@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRegisterExistingEmailRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	req := &model.RegisterRequest{Email: "pat@example.com", Name: "Pat", Password: "s3cret-pass"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &model.RegisterRequest{
		Email:    "pat@example.com",
		Name:     "Pat",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "pat@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestLoginPasswordlessUserRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertUser(ctx, "pat@example.com", "Pat")
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Email: "pat@example.com", Password: ""})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}
