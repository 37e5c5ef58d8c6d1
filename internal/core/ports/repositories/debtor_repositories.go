package repositories

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// DebtorReader handles read operations for debtors.
type DebtorReader interface {
	FindDebtorByID(ctx context.Context, userID string, debtorID string) (*domain.Debtor, error)
	ListDebtors(ctx context.Context, userID string) ([]domain.Debtor, error)
}

// DebtorWriter handles write operations for debtors.
type DebtorWriter interface {
	SaveDebtor(ctx context.Context, debtor domain.Debtor) error
	UpdateDebtor(ctx context.Context, debtor domain.Debtor) error
	DeleteDebtor(ctx context.Context, userID string, debtorID string) error
}

// DebtorRepositoryFacade combines all debtor repository capabilities.
type DebtorRepositoryFacade interface {
	DebtorReader
	DebtorWriter
}
