package services

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/dto"
)

// UserReaderSvc handles user read operations.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriterSvc handles user write operations.
type UserWriterSvc interface {
	CreateUser(ctx context.Context, req dto.SignupRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)
}

// UserAuthSvc handles credential checks and account recovery.
type UserAuthSvc interface {
	// Authenticate verifies an email/password pair and returns the
	// matching user. Wrong email and wrong password are
	// indistinguishable to the caller.
	Authenticate(ctx context.Context, email string, password string) (*domain.User, error)

	// FindOrCreateGoogleUser resolves a verified Google identity to a
	// local user, creating one on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)

	// ForgotPassword issues a short-lived reset token for the email.
	// The token is returned to the caller for delivery.
	ForgotPassword(ctx context.Context, email string) (string, error)

	// ResetPassword consumes a reset token and stores a new password.
	ResetPassword(ctx context.Context, token string, newPassword string) error
}

// UserSvcFacade combines all user service capabilities.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
