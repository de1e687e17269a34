package services

import (
	"context"
	"fmt"

	"campo-listings/internal/models"
	"campo-listings/internal/validators"
	"campo-listings/pkg/apiclient"
	"campo-listings/pkg/auth"
	"campo-listings/pkg/logger"
	"campo-listings/pkg/session"
)

// AuthService manages the admin session held in the token store.
type AuthService struct {
	client    APIClient
	store     session.Store
	validator validators.UserValidator
}

func NewAuthService(client APIClient, store session.Store, validator validators.UserValidator) *AuthService {
	if validator == nil {
		validator = validators.NewUserValidator()
	}
	return &AuthService{client: client, store: store, validator: validator}
}

// Login exchanges credentials for a token and stores it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	if err := s.validator.ValidateLogin(email, password); err != nil {
		return nil, err
	}
	var resp models.LoginResponse
	err := s.client.Post(ctx, "/auth/login", &models.LoginRequest{Email: email, Password: password}, &resp,
		apiclient.WithoutAuth())
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	s.store.Set(ctx, resp.Token)
	logger.GlobalLogger.Printf("Logged in: email=%s", resp.User.Email)
	return &resp, nil
}

// Logout forgets the stored token.
func (s *AuthService) Logout(ctx context.Context) {
	s.store.Clear(ctx)
	logger.GlobalLogger.Debugf("Session cleared")
}

// Me returns the user the server associates with the stored token.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	if s.store.Get(ctx) == "" {
		return nil, auth.ErrNoToken
	}
	var user models.User
	if err := s.client.Get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Session decodes the stored token locally. The claims are not verified.
func (s *AuthService) Session(ctx context.Context) (*auth.Claims, error) {
	return auth.ParseUnverified(s.store.Get(ctx))
}
