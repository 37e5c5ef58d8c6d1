package repositories

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// DebtReader handles read operations for debts and their payments.
// Debts are reached through their debtor, so ownership checks go
// through the debtor's user.
type DebtReader interface {
	FindDebtByID(ctx context.Context, userID string, debtID string) (*domain.Debt, error)
	ListDebts(ctx context.Context, userID string) ([]domain.Debt, error)
	ListDebtsByDebtor(ctx context.Context, userID string, debtorID string) ([]domain.Debt, error)
	FindPaymentByID(ctx context.Context, userID string, paymentID string) (*domain.Payment, error)
	ListPaymentsByDebt(ctx context.Context, userID string, debtID string) ([]domain.Payment, error)
}

// DebtWriter handles write operations for debts and their payments.
type DebtWriter interface {
	SaveDebt(ctx context.Context, debt domain.Debt) error
	UpdateDebt(ctx context.Context, debt domain.Debt) error
	DeleteDebt(ctx context.Context, userID string, debtID string) error
	DeletePayment(ctx context.Context, userID string, paymentID string) error

	// RecordPayment inserts a payment against a debt inside a single
	// store transaction. The debt row is locked, the payment total is
	// recomputed, and when the new total covers the debt the status is
	// flipped to PAID and the provided income transaction is inserted
	// in the same transaction. Returns whether the debt settled.
	RecordPayment(ctx context.Context, userID string, payment domain.Payment, income domain.Transaction) (bool, error)

	// SettleDebt marks a debt as PAID and records the provided income
	// transaction atomically. Returns apperrors.ErrConflict when the
	// debt is already settled.
	SettleDebt(ctx context.Context, userID string, debtID string, income domain.Transaction) error
}

// DebtRepositoryFacade combines all debt repository capabilities.
type DebtRepositoryFacade interface {
	DebtReader
	DebtWriter
}
