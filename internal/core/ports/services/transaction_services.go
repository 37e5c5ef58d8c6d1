package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/dto"
)

// TransactionReaderSvc handles transaction reads and reporting.
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns the user's transactions matching the
	// filter. When the filter names a month, virtual occurrences of
	// active subscriptions falling in that month are merged in.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// GetSummary aggregates income, expenses and balance, either
	// all-time (nil month/year) or for one calendar month.
	GetSummary(ctx context.Context, userID string, month *int, year *int) (*domain.Summary, error)
}

// TransactionWriterSvc handles transaction writes and installment
// payments.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID string, transactionID string) error

	// MarkTransactionPaid flips an expense to the terminal PAID type.
	MarkTransactionPaid(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error)

	// MarkInstallmentPaid settles a single installment. When it was
	// the last pending one the parent transaction flips to PAID.
	MarkInstallmentPaid(ctx context.Context, userID string, installmentID string) (*domain.Installment, error)

	// RegisterPartialPayment applies an arbitrary amount to a plan's
	// pending installments in due-date order, settling only the
	// installments it fully covers.
	RegisterPartialPayment(ctx context.Context, userID string, transactionID string, amount decimal.Decimal) (*domain.PartialPaymentResult, error)
}

// TransactionSvcFacade combines all transaction service capabilities.
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
