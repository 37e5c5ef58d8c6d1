package repositories

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// UserReader handles read operations for users.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	FindUserByResetToken(ctx context.Context, resetToken string) (*domain.User, error)
}

// UserWriter handles write operations for users.
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user repository capabilities.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
