package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/platform/config"
	"github.com/finbook/finbook_backend/internal/utils"
)

// tokenService issues access tokens.
type tokenService struct {
	BaseService
	cfg *config.Config
}

// NewTokenService creates a new token service.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) GenerateAccessToken(ctx context.Context, user domain.User) (string, time.Time, error) {
	token, expiresAt, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return "", time.Time{}, apperrors.ErrInternal
	}
	return token, expiresAt, nil
}

// googleOAuthService drives the Google sign-in flow.
type googleOAuthService struct {
	BaseService
	cfg          *config.Config
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthService creates a new Google OAuth service.
func NewGoogleOAuthService(cfg *config.Config) portssvc.GoogleOAuthSvcFacade {
	return &googleOAuthService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

var _ portssvc.GoogleOAuthSvcFacade = (*googleOAuthService)(nil)

func (s *googleOAuthService) GenerateState() (string, error) {
	return utils.GenerateSecureRandomString(16)
}

func (s *googleOAuthService) LoginURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for the ID token Google embeds
// in its token response.
func (s *googleOAuthService) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: failed to exchange authorization code", apperrors.ErrUnauthorized)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", fmt.Errorf("%w: token response did not include an id_token", apperrors.ErrUnauthorized)
	}
	return rawIDToken, nil
}

// VerifyIDToken validates a Google ID token against the configured client ID
// and extracts the identity claims.
func (s *googleOAuthService) VerifyIDToken(ctx context.Context, idToken string) (*domain.GoogleUserInfo, error) {
	payload, err := idtoken.Validate(ctx, idToken, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Google ID token", apperrors.ErrUnauthorized)
	}

	info := &domain.GoogleUserInfo{GoogleID: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		info.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		info.Name = name
	}
	if info.Email == "" {
		return nil, fmt.Errorf("%w: Google ID token is missing the email claim", apperrors.ErrUnauthorized)
	}
	return info, nil
}
