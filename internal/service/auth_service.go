// Package service implements the business operations exposed by the HTTP
// layer, keeping handlers free of domain logic.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/consultjules/receipts/internal/auth"
	"github.com/consultjules/receipts/internal/models"
)

// AuthService registers users and exchanges credentials for tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new user account. Duplicate emails surface as
// storage.ErrEmailExists and weak passwords as auth.ErrWeakPassword.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Register(ctx, email, password)
	if err != nil {
		s.logger.Warn("registration failed", "email", email, "error", err)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login authenticates a user and returns a signed token alongside the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if email == "" || password == "" {
		return "", nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email)
		return "", nil, auth.ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(user.ID)
	if err != nil {
		s.logger.Error("failed to generate token", "user_id", user.ID, "error", err)
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "email", user.Email)
	return token, user, nil
}
