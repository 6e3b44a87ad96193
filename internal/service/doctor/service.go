package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository"
	apperrors "github.com/doctorsportal/booking-api/pkg/errors"
)

type Service struct {
	doctors repository.DoctorRepository
}

func NewService(doctors repository.DoctorRepository) *Service {
	return &Service{doctors: doctors}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doc := &model.Doctor{
		Email:     req.Email,
		Name:      req.Name,
		Specialty: req.Specialty,
	}
	if err := s.doctors.Create(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.BadRequest("doctor already exists", err)
		}
		return nil, apperrors.StoreUnavailable(fmt.Errorf("create doctor: %w", err))
	}
	return doc, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(fmt.Errorf("list doctors: %w", err))
	}
	return doctors, nil
}

func (s *Service) Delete(ctx context.Context, docEmail string) error {
	if err := s.doctors.Delete(ctx, docEmail); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("doctor", err)
		}
		return apperrors.StoreUnavailable(fmt.Errorf("delete doctor: %w", err))
	}
	return nil
}
