package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/events"
)

var (
	// ErrAlreadySettled is returned when a settled debt is settled again.
	ErrAlreadySettled = errors.New("debt is already settled")
	// ErrNonPositiveAmount is returned for zero or negative money amounts.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
	// ErrNegativeAmount is returned for negative money amounts where zero is
	// meaningful, such as a debt total.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// debtService provides debt lifecycle and payment reconciliation.
type debtService struct {
	BaseService
	debtRepo   portsrepo.DebtRepositoryFacade
	debtorRepo portsrepo.DebtorRepositoryFacade
	publisher  *events.Publisher
}

// NewDebtService creates a new debt service.
func NewDebtService(debtRepo portsrepo.DebtRepositoryFacade, debtorRepo portsrepo.DebtorRepositoryFacade, publisher *events.Publisher) portssvc.DebtSvcFacade {
	return &debtService{debtRepo: debtRepo, debtorRepo: debtorRepo, publisher: publisher}
}

var _ portssvc.DebtSvcFacade = (*debtService)(nil)

func (s *debtService) CreateDebt(ctx context.Context, userID string, req dto.CreateDebtRequest) (*domain.Debt, error) {
	// Zero is a valid total: such a debt reconciles to PAID immediately.
	if req.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNegativeAmount)
	}

	// The debtor lookup doubles as the ownership check.
	if _, err := s.debtorRepo.FindDebtorByID(ctx, userID, req.DebtorID); err != nil {
		return nil, err
	}

	now := time.Now()
	debt := domain.Debt{
		DebtID:      uuid.NewString(),
		DebtorID:    req.DebtorID,
		Description: req.Description,
		TotalAmount: req.TotalAmount,
		DueDate:     req.DueDate,
		Status:      domain.DebtPending,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.debtRepo.SaveDebt(ctx, debt); err != nil {
		s.LogError(ctx, err, "Failed to save debt", slog.String("debt_id", debt.DebtID))
		return nil, err
	}

	s.LogInfo(ctx, "Debt created", slog.String("debt_id", debt.DebtID))
	reconciled := debt.Reconciled()
	return &reconciled, nil
}

func (s *debtService) GetDebtByID(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, userID, debtID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find debt", slog.String("debt_id", debtID))
		}
		return nil, err
	}
	reconciled := debt.Reconciled()
	return &reconciled, nil
}

// ListDebts returns the user's debts with derived amounts. When a status is
// given, filtering happens on the derived status, not the stored one.
func (s *debtService) ListDebts(ctx context.Context, userID string, status *domain.DebtStatus) ([]domain.Debt, error) {
	debts, err := s.debtRepo.ListDebts(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list debts")
		return nil, err
	}

	result := make([]domain.Debt, 0, len(debts))
	for _, d := range debts {
		reconciled := d.Reconciled()
		if status != nil && reconciled.Status != *status {
			continue
		}
		result = append(result, reconciled)
	}
	return result, nil
}

func (s *debtService) ListDebtsByDebtor(ctx context.Context, userID string, debtorID string) ([]domain.Debt, error) {
	if _, err := s.debtorRepo.FindDebtorByID(ctx, userID, debtorID); err != nil {
		return nil, err
	}

	debts, err := s.debtRepo.ListDebtsByDebtor(ctx, userID, debtorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list debts by debtor", slog.String("debtor_id", debtorID))
		return nil, err
	}

	result := make([]domain.Debt, 0, len(debts))
	for _, d := range debts {
		result = append(result, d.Reconciled())
	}
	return result, nil
}

func (s *debtService) ListPayments(ctx context.Context, userID string, debtID string) ([]domain.Payment, error) {
	payments, err := s.debtRepo.ListPaymentsByDebt(ctx, userID, debtID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to list payments", slog.String("debt_id", debtID))
		}
		return nil, err
	}
	return payments, nil
}

func (s *debtService) UpdateDebt(ctx context.Context, userID string, debtID string, req dto.UpdateDebtRequest) (*domain.Debt, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		debt.Description = *req.Description
	}
	if req.TotalAmount != nil {
		if req.TotalAmount.IsNegative() {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNegativeAmount)
		}
		debt.TotalAmount = *req.TotalAmount
	}
	if req.DueDate != nil {
		debt.DueDate = req.DueDate
	}
	if req.CategoryID != nil {
		debt.CategoryID = req.CategoryID
	}
	if req.AccountID != nil {
		debt.AccountID = req.AccountID
	}
	// A stored PAID status never reverts, regardless of the requested value.
	if req.Status != nil && *req.Status == domain.DebtPaid {
		debt.Status = domain.DebtPaid
	}
	debt.UpdatedAt = time.Now()

	if err := s.debtRepo.UpdateDebt(ctx, *debt); err != nil {
		s.LogError(ctx, err, "Failed to update debt", slog.String("debt_id", debtID))
		return nil, err
	}

	reconciled := debt.Reconciled()
	return &reconciled, nil
}

func (s *debtService) DeleteDebt(ctx context.Context, userID string, debtID string) error {
	if err := s.debtRepo.DeleteDebt(ctx, userID, debtID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete debt", slog.String("debt_id", debtID))
		}
		return err
	}
	s.LogInfo(ctx, "Debt deleted", slog.String("debt_id", debtID))
	return nil
}

// CreatePayment records a payment against a debt. When the payment total
// reaches the debt amount, the repository settles the debt and records the
// income transaction in the same store transaction, so the settlement and
// its income entry can never diverge.
func (s *debtService) CreatePayment(ctx context.Context, userID string, debtID string, req dto.CreatePaymentRequest) (*domain.Debt, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNonPositiveAmount)
	}

	debt, err := s.debtRepo.FindDebtByID(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	paymentDate := now
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	payment := domain.Payment{
		PaymentID:   uuid.NewString(),
		DebtID:      debtID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	income, err := s.settlementIncome(ctx, userID, *debt, now)
	if err != nil {
		return nil, err
	}
	settled, err := s.debtRepo.RecordPayment(ctx, userID, payment, income)
	if err != nil {
		s.LogError(ctx, err, "Failed to record payment", slog.String("debt_id", debtID))
		return nil, err
	}

	if settled {
		s.LogInfo(ctx, "Debt settled by payment", slog.String("debt_id", debtID))
		s.publisher.Publish(ctx, events.DebtSettled{
			DebtID: debtID,
			UserID: userID,
			Amount: debt.TotalAmount,
		})
	}

	return s.GetDebtByID(ctx, userID, debtID)
}

// MarkDebtPaid force-settles a debt regardless of its payment total. An
// already settled debt, manual or payment-driven, yields ErrAlreadySettled.
func (s *debtService) MarkDebtPaid(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	debt, err := s.debtRepo.FindDebtByID(ctx, userID, debtID)
	if err != nil {
		return nil, err
	}

	if debt.Reconciled().Status == domain.DebtPaid {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrAlreadySettled)
	}

	now := time.Now()
	income, err := s.settlementIncome(ctx, userID, *debt, now)
	if err != nil {
		return nil, err
	}
	if err := s.debtRepo.SettleDebt(ctx, userID, debtID, income); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, ErrAlreadySettled)
		}
		s.LogError(ctx, err, "Failed to settle debt", slog.String("debt_id", debtID))
		return nil, err
	}

	s.LogInfo(ctx, "Debt marked as paid", slog.String("debt_id", debtID))
	s.publisher.Publish(ctx, events.DebtSettled{
		DebtID: debtID,
		UserID: userID,
		Amount: debt.TotalAmount,
	})

	return s.GetDebtByID(ctx, userID, debtID)
}

// DeletePayment removes a payment. The debt's settled status, if reached,
// stays put: settlement never reverts.
func (s *debtService) DeletePayment(ctx context.Context, userID string, paymentID string) error {
	if err := s.debtRepo.DeletePayment(ctx, userID, paymentID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete payment", slog.String("payment_id", paymentID))
		}
		return err
	}
	s.LogInfo(ctx, "Payment deleted", slog.String("payment_id", paymentID))
	return nil
}

// settlementIncome builds the income transaction recorded when a debt
// settles. It carries the debt's full amount and names the debtor, but stays
// unlinked: no category, no account, no reference back to the debt.
func (s *debtService) settlementIncome(ctx context.Context, userID string, debt domain.Debt, now time.Time) (domain.Transaction, error) {
	debtor, err := s.debtorRepo.FindDebtorByID(ctx, userID, debt.DebtorID)
	if err != nil {
		return domain.Transaction{}, err
	}
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Description:   fmt.Sprintf("Receivable collected from %s", debtor.Name),
		Amount:        debt.TotalAmount,
		Date:          now,
		Type:          domain.Income,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}, nil
}
