package repositories

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// AccountReader handles read operations for accounts. All lookups are
// scoped to the owning user.
type AccountReader interface {
	FindAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error)
	FindAccountByName(ctx context.Context, userID string, name string) (*domain.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter handles write operations for accounts.
type AccountWriter interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeleteAccount(ctx context.Context, userID string, accountID string) error
}

// AccountRepositoryFacade combines all account repository capabilities.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
