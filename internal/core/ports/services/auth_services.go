package services

import (
	"context"
	"time"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// TokenSvcFacade issues access tokens for authenticated users.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user domain.User) (string, time.Time, error)
}

// GoogleOAuthSvcFacade drives the Google sign-in flow.
type GoogleOAuthSvcFacade interface {
	// GenerateState returns a random state string for CSRF protection.
	GenerateState() (string, error)

	// LoginURL builds the Google consent page URL for the given state.
	LoginURL(state string) string

	// ExchangeCode trades an authorization code for the ID token
	// embedded in Google's token response.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// VerifyIDToken validates a Google ID token and extracts the
	// identity claims.
	VerifyIDToken(ctx context.Context, idToken string) (*domain.GoogleUserInfo, error)
}
