package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"renthub/internal/auth"
	"renthub/internal/domain"
	"renthub/internal/models"
)

type AuthService struct {
	repo   domain.Repository
	tokens *auth.TokenManager
	logger *zerolog.Logger
}

func NewAuthService(repo domain.Repository, tokens *auth.TokenManager, logger *zerolog.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterInput carries the signup form. Role is restricted to owner/tenant;
// admins are created by the seed tool or by another admin.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, "", fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if in.Name == "" {
		return nil, "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(in.Password) < models.MinPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", ErrValidation, models.MinPasswordLength)
	}
	if in.Role != models.RoleOwner && in.Role != models.RoleTenant {
		return nil, "", fmt.Errorf("%w: role must be owner or tenant", ErrValidation)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         in.Role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("User registered")
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		// Не раскрываем, существует ли адрес
		return nil, "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, name, phone, avatar string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := s.repo.UpdateUserProfile(ctx, userID, name, strings.TrimSpace(phone), avatar); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, userID)
}
