package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository"
	apperrors "github.com/doctorsportal/booking-api/pkg/errors"
)

type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.StoreUnavailable(fmt.Errorf("list users: %w", err))
	}
	return users, nil
}

// Promote elevates a user to the admin tier
func (s *Service) Promote(ctx context.Context, userEmail string) error {
	if err := s.users.UpdateRole(ctx, userEmail, model.RoleAdmin); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return apperrors.StoreUnavailable(fmt.Errorf("update role: %w", err))
	}
	return nil
}

// IsAdmin reports whether the user currently holds the admin tier. An
// unknown user is simply not an admin.
func (s *Service) IsAdmin(ctx context.Context, userEmail string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, userEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, apperrors.StoreUnavailable(fmt.Errorf("load user: %w", err))
	}
	return user.IsAdmin(), nil
}

// Authorize re-reads the caller's role and compares it with the
// required tier. Evaluated fresh per request so a revoked role takes
// effect on the very next call.
func (s *Service) Authorize(ctx context.Context, userEmail string, required model.Role) error {
	user, err := s.users.GetByEmail(ctx, userEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Forbidden("insufficient privileges")
		}
		return apperrors.StoreUnavailable(fmt.Errorf("load user: %w", err))
	}
	if user.Role != required {
		return apperrors.Forbidden("insufficient privileges")
	}
	return nil
}
