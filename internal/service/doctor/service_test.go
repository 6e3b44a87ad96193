package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository/memory"
	apperrors "github.com/doctorsportal/booking-api/pkg/errors"
)

func TestCreateListDelete(t *testing.T) {
	svc := NewService(memory.NewStore().Doctors())
	ctx := context.Background()

	doc, err := svc.Create(ctx, &model.CreateDoctorRequest{
		Email:     "dr@example.com",
		Name:      "Dr. Smith",
		Specialty: "Orthodontics",
	})
	require.NoError(t, err)
	assert.Equal(t, "dr@example.com", doc.Email)

	doctors, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)

	require.NoError(t, svc.Delete(ctx, "dr@example.com"))
	doctors, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, doctors)
}

func TestCreateDuplicateRejected(t *testing.T) {
	svc := NewService(memory.NewStore().Doctors())
	ctx := context.Background()

	req := &model.CreateDoctorRequest{Email: "dr@example.com", Name: "Dr. Smith"}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestDeleteUnknownDoctor(t *testing.T) {
	svc := NewService(memory.NewStore().Doctors())

	err := svc.Delete(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
