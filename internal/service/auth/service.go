package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/doctorsportal/booking-api/internal/model"
	"github.com/doctorsportal/booking-api/internal/repository"
	"github.com/doctorsportal/booking-api/pkg/auth"
	apperrors "github.com/doctorsportal/booking-api/pkg/errors"
)

const bcryptCost = 12

type Service struct {
	users  repository.UserRepository
	jwtSvc auth.JWTService
}

func NewService(users repository.UserRepository, jwtSvc auth.JWTService) *Service {
	return &Service{users: users, jwtSvc: jwtSvc}
}

// UpsertUser is the social-login path: create or refresh the user row
// keyed by email, then issue a credential for it. Role is never touched
// here; elevation goes through the user service.
func (s *Service) UpsertUser(ctx context.Context, userEmail, name string) (*model.TokenResponse, error) {
	user := &model.User{
		Email: userEmail,
		Name:  name,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, apperrors.StoreUnavailable(fmt.Errorf("upsert user: %w", err))
	}

	token, err := s.jwtSvc.GenerateToken(user.Email)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate token: %w", err))
	}
	return &model.TokenResponse{AccessToken: token}, nil
}

// Register creates a user with a local password credential
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	if existing, err := s.users.GetByEmail(ctx, req.Email); err == nil && existing.PasswordHash != "" {
		return nil, apperrors.BadRequest("email already registered", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, apperrors.StoreUnavailable(fmt.Errorf("create user: %w", err))
	}

	token, err := s.jwtSvc.GenerateToken(user.Email)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate token: %w", err))
	}
	return &model.TokenResponse{AccessToken: token}, nil
}

// Login verifies a local password credential and issues a token. The
// same Forbidden is returned for unknown email and wrong password.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Forbidden("invalid credentials")
		}
		return nil, apperrors.StoreUnavailable(fmt.Errorf("load user: %w", err))
	}

	if user.PasswordHash == "" {
		return nil, apperrors.Forbidden("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Forbidden("invalid credentials")
	}

	token, err := s.jwtSvc.GenerateToken(user.Email)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate token: %w", err))
	}
	return &model.TokenResponse{AccessToken: token}, nil
}
