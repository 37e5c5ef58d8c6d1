package services

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/dto"
)

// DebtReaderSvc handles debt and payment reads. Returned debts always
// carry reconciled paid/remaining amounts and status.
type DebtReaderSvc interface {
	GetDebtByID(ctx context.Context, userID string, debtID string) (*domain.Debt, error)
	ListDebts(ctx context.Context, userID string, status *domain.DebtStatus) ([]domain.Debt, error)
	ListDebtsByDebtor(ctx context.Context, userID string, debtorID string) ([]domain.Debt, error)
	ListPayments(ctx context.Context, userID string, debtID string) ([]domain.Payment, error)
}

// DebtWriterSvc handles debt and payment writes.
type DebtWriterSvc interface {
	CreateDebt(ctx context.Context, userID string, req dto.CreateDebtRequest) (*domain.Debt, error)
	UpdateDebt(ctx context.Context, userID string, debtID string, req dto.UpdateDebtRequest) (*domain.Debt, error)
	DeleteDebt(ctx context.Context, userID string, debtID string) error

	// CreatePayment records a payment against a debt. When the payment
	// brings the paid total to the debt amount the debt settles and an
	// income transaction is recorded atomically with it.
	CreatePayment(ctx context.Context, userID string, debtID string, req dto.CreatePaymentRequest) (*domain.Debt, error)

	// MarkDebtPaid force-settles a debt regardless of its paid total.
	// Fails when the debt is already settled.
	MarkDebtPaid(ctx context.Context, userID string, debtID string) (*domain.Debt, error)

	DeletePayment(ctx context.Context, userID string, paymentID string) error
}

// DebtSvcFacade combines all debt service capabilities.
type DebtSvcFacade interface {
	DebtReaderSvc
	DebtWriterSvc
}
