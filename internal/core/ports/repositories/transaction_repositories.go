package repositories

import (
	"context"
	"time"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// TransactionReader handles read operations for transactions and their
// installments.
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)
	FindInstallmentByID(ctx context.Context, userID string, installmentID string) (*domain.Installment, error)
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error)
}

// TransactionWriter handles write operations for transactions.
type TransactionWriter interface {
	// SaveTransaction persists a transaction and, when present, its
	// installment rows in a single store transaction.
	SaveTransaction(ctx context.Context, transaction domain.Transaction) error
	UpdateTransaction(ctx context.Context, transaction domain.Transaction) error
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error

	// MarkTransactionPaid flips a transaction's type to PAID. Returns
	// apperrors.ErrConflict when the transaction is already PAID.
	MarkTransactionPaid(ctx context.Context, userID string, transactionID string) error

	// MarkInstallmentsPaid flips the given installments to PAID with
	// the given payment date, all in one store transaction. Only
	// PENDING installments are touched; apperrors.ErrConflict is
	// returned when any of them is already PAID.
	MarkInstallmentsPaid(ctx context.Context, userID string, installmentIDs []string, paidAt time.Time) error
}

// TransactionRepositoryFacade combines all transaction repository
// capabilities.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
