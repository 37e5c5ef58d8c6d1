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
)

// transactionService provides transaction CRUD plus the installment plan and
// reporting flows layered on top of it.
type transactionService struct {
	BaseService
	transactionRepo  portsrepo.TransactionRepositoryFacade
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade
	categoryRepo     portsrepo.CategoryRepositoryFacade
	accountRepo      portsrepo.AccountRepositoryFacade
	debtSvc          portssvc.DebtSvcFacade
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(
	transactionRepo portsrepo.TransactionRepositoryFacade,
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	debtSvc portssvc.DebtSvcFacade,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo:  transactionRepo,
		subscriptionRepo: subscriptionRepo,
		categoryRepo:     categoryRepo,
		accountRepo:      accountRepo,
		debtSvc:          debtSvc,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns stored transactions matching the filter. When the
// filter names a calendar month, virtual occurrences of active subscriptions
// falling in that month are merged into the result.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.ListTransactions(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}

	if filter.Month == nil || filter.Year == nil {
		return transactions, nil
	}

	start, end := monthBounds(*filter.Year, *filter.Month)
	virtual, err := s.projectVirtual(ctx, userID, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to project recurring occurrences")
		return nil, err
	}

	for _, occ := range virtual {
		if matchesFilter(occ, filter) {
			transactions = append(transactions, occ)
		}
	}
	return transactions, nil
}

// GetSummary aggregates income, expenses and balance. With a month and year
// it covers that calendar month, including installments due in it and virtual
// recurring occurrences; otherwise it covers all stored transactions.
func (s *transactionService) GetSummary(ctx context.Context, userID string, month *int, year *int) (*domain.Summary, error) {
	if month == nil || year == nil {
		transactions, err := s.transactionRepo.ListTransactions(ctx, userID, domain.TransactionFilter{})
		if err != nil {
			s.LogError(ctx, err, "Failed to list transactions for summary")
			return nil, err
		}
		summary := domain.SummarizeAllTime(transactions)
		return &summary, nil
	}

	// Installments of a plan may fall due in months other than the plan's
	// own date, so the period summary walks the full transaction set.
	transactions, err := s.transactionRepo.ListTransactions(ctx, userID, domain.TransactionFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions for summary")
		return nil, err
	}

	start, end := monthBounds(*year, *month)
	virtual, err := s.projectVirtual(ctx, userID, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to project recurring occurrences for summary")
		return nil, err
	}

	summary := domain.SummarizePeriod(transactions, virtual, start, end)
	return &summary, nil
}

// CreateTransaction records a money movement. Depending on the request it can
// also open an installment plan, spawn a subscription for a recurring
// movement, or route an income to a debt as a payment, in which case no plain
// transaction row is stored.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNonPositiveAmount)
	}
	if err := s.checkLinks(ctx, userID, req.CategoryID, req.AccountID); err != nil {
		return nil, err
	}

	if req.DebtID != nil {
		return s.createDebtPayment(ctx, userID, req)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Description:   req.Description,
		Amount:        req.Amount,
		Date:          req.Date,
		Type:          req.Type,
		CategoryID:    req.CategoryID,
		AccountID:     req.AccountID,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if req.IsInstallmentPlan {
		if err := s.attachInstallmentPlan(&txn, req); err != nil {
			return nil, err
		}
	}

	if req.IsRecurring {
		subscriptionID, err := s.spawnSubscription(ctx, userID, req, now)
		if err != nil {
			return nil, err
		}
		txn.IsRecurring = true
		txn.SubscriptionID = &subscriptionID
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created", slog.String("transaction_id", txn.TransactionID))
	return &txn, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := s.checkLinks(ctx, userID, req.CategoryID, req.AccountID); err != nil {
		return nil, err
	}

	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNonPositiveAmount)
		}
		txn.Amount = *req.Amount
	}
	if req.Date != nil {
		txn.Date = *req.Date
	}
	if req.Type != nil {
		txn.Type = *req.Type
	}
	if req.CategoryID != nil {
		txn.CategoryID = req.CategoryID
	}
	if req.AccountID != nil {
		txn.AccountID = req.AccountID
	}
	txn.UpdatedAt = time.Now()

	if err := s.transactionRepo.UpdateTransaction(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	if err := s.transactionRepo.DeleteTransaction(ctx, userID, transactionID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		}
		return err
	}
	s.LogInfo(ctx, "Transaction deleted", slog.String("transaction_id", transactionID))
	return nil
}

func (s *transactionService) MarkTransactionPaid(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	if err := s.transactionRepo.MarkTransactionPaid(ctx, userID, transactionID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: transaction is already paid", apperrors.ErrConflict)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to mark transaction as paid", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Transaction marked as paid", slog.String("transaction_id", transactionID))
	return s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
}

// MarkInstallmentPaid settles one installment. When it was the plan's last
// pending installment the parent transaction flips to the terminal PAID type.
func (s *transactionService) MarkInstallmentPaid(ctx context.Context, userID string, installmentID string) (*domain.Installment, error) {
	installment, err := s.transactionRepo.FindInstallmentByID(ctx, userID, installmentID)
	if err != nil {
		return nil, err
	}
	if installment.Status == domain.InstallmentPaid {
		return nil, fmt.Errorf("%w: installment is already paid", apperrors.ErrConflict)
	}

	paidAt := time.Now()
	if err := s.transactionRepo.MarkInstallmentsPaid(ctx, userID, []string{installmentID}, paidAt); err != nil {
		s.LogError(ctx, err, "Failed to mark installment as paid", slog.String("installment_id", installmentID))
		return nil, err
	}

	if err := s.settleParentIfComplete(ctx, userID, installment.TransactionID); err != nil {
		return nil, err
	}

	installment.Status = domain.InstallmentPaid
	installment.PaidDate = &paidAt
	return installment, nil
}

// RegisterPartialPayment applies an amount to a plan's pending installments in
// due order, settling only the installments it fully covers and reporting the
// leftover back to the caller.
func (s *transactionService) RegisterPartialPayment(ctx context.Context, userID string, transactionID string, amount decimal.Decimal) (*domain.PartialPaymentResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNonPositiveAmount)
	}

	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsInstallmentPlan {
		return nil, fmt.Errorf("%w: transaction is not an installment plan", apperrors.ErrValidation)
	}

	result := domain.ApplyPartialPayment(txn.Installments, amount)
	if len(result.PaidInstallmentIDs) == 0 {
		return &result, nil
	}

	if err := s.transactionRepo.MarkInstallmentsPaid(ctx, userID, result.PaidInstallmentIDs, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to settle installments", slog.String("transaction_id", transactionID))
		return nil, err
	}

	if err := s.settleParentIfComplete(ctx, userID, transactionID); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Partial payment applied",
		slog.String("transaction_id", transactionID),
		slog.Int("installments_paid", len(result.PaidInstallmentIDs)))
	return &result, nil
}

// createDebtPayment routes an income transaction to a debt as a payment. The
// transaction itself is not stored; if the payment settles the debt, the
// settlement income transaction is recorded instead. The returned transaction
// echoes the request and is marked virtual.
func (s *transactionService) createDebtPayment(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if req.Type != domain.Income {
		return nil, fmt.Errorf("%w: debt payments must be income transactions", apperrors.ErrValidation)
	}

	paymentDate := req.Date
	notes := fmt.Sprintf("Payment via transaction: %s", req.Description)
	if _, err := s.debtSvc.CreatePayment(ctx, userID, *req.DebtID, dto.CreatePaymentRequest{
		Amount:      req.Amount,
		PaymentDate: &paymentDate,
		Notes:       notes,
	}); err != nil {
		return nil, err
	}

	now := time.Now()
	return &domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Description:   req.Description,
		Amount:        req.Amount,
		Date:          req.Date,
		Type:          req.Type,
		CategoryID:    req.CategoryID,
		AccountID:     req.AccountID,
		IsVirtual:     true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}, nil
}

// attachInstallmentPlan fills the plan fields and generates the schedule.
func (s *transactionService) attachInstallmentPlan(txn *domain.Transaction, req dto.CreateTransactionRequest) error {
	if req.InstallmentCount == nil || req.InstallmentFrequency == nil {
		return fmt.Errorf("%w: installment plans require a count and a frequency", apperrors.ErrValidation)
	}

	firstDate := req.Date
	if req.FirstInstallmentDate != nil {
		firstDate = *req.FirstInstallmentDate
	}

	installments, err := domain.GenerateInstallments(req.Amount, *req.InstallmentCount, *req.InstallmentFrequency, firstDate)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}
	for i := range installments {
		installments[i].InstallmentID = uuid.NewString()
		installments[i].TransactionID = txn.TransactionID
		installments[i].CreatedAt = txn.CreatedAt
		installments[i].UpdatedAt = txn.UpdatedAt
	}

	txn.IsInstallmentPlan = true
	txn.InstallmentCount = *req.InstallmentCount
	txn.InstallmentFrequency = *req.InstallmentFrequency
	txn.InstallmentAmount = domain.SplitInstallmentAmount(req.Amount, *req.InstallmentCount)
	txn.FirstInstallmentDate = &firstDate
	txn.Installments = installments
	return nil
}

// spawnSubscription creates the subscription behind a recurring transaction.
// The transaction covers the first occurrence, so the subscription's next
// payment date starts one frequency step after the transaction date.
func (s *transactionService) spawnSubscription(ctx context.Context, userID string, req dto.CreateTransactionRequest, now time.Time) (string, error) {
	if req.Frequency == nil {
		return "", fmt.Errorf("%w: recurring transactions require a frequency", apperrors.ErrValidation)
	}

	next, err := domain.NextPaymentDate(req.Date, *req.Frequency)
	if err != nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	subscription := domain.Subscription{
		SubscriptionID:  uuid.NewString(),
		UserID:          userID,
		Name:            req.Description,
		Amount:          req.Amount,
		Type:            req.Type,
		Frequency:       *req.Frequency,
		StartDate:       req.Date,
		IsActive:        true,
		NextPaymentDate: next,
		CategoryID:      req.CategoryID,
		AccountID:       req.AccountID,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.subscriptionRepo.SaveSubscription(ctx, subscription); err != nil {
		s.LogError(ctx, err, "Failed to save subscription for recurring transaction")
		return "", err
	}
	return subscription.SubscriptionID, nil
}

// settleParentIfComplete flips a plan transaction to PAID once no pending
// installments remain. An already paid parent is left alone.
func (s *transactionService) settleParentIfComplete(ctx context.Context, userID string, transactionID string) error {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return err
	}
	if txn.Type == domain.Paid {
		return nil
	}
	for _, inst := range txn.Installments {
		if inst.Status == domain.InstallmentPending {
			return nil
		}
	}

	if err := s.transactionRepo.MarkTransactionPaid(ctx, userID, transactionID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		s.LogError(ctx, err, "Failed to settle plan transaction", slog.String("transaction_id", transactionID))
		return err
	}
	s.LogInfo(ctx, "Installment plan fully settled", slog.String("transaction_id", transactionID))
	return nil
}

// checkLinks verifies that referenced category and account belong to the user.
func (s *transactionService) checkLinks(ctx context.Context, userID string, categoryID, accountID *string) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.FindCategoryByID(ctx, userID, *categoryID); err != nil {
			return err
		}
	}
	if accountID != nil {
		if _, err := s.accountRepo.FindAccountByID(ctx, userID, *accountID); err != nil {
			return err
		}
	}
	return nil
}

// projectVirtual computes virtual occurrences of active subscriptions in
// [start, end].
func (s *transactionService) projectVirtual(ctx context.Context, userID string, start, end time.Time) ([]domain.Transaction, error) {
	subscriptions, err := s.subscriptionRepo.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		return nil, err
	}

	var virtual []domain.Transaction
	for _, sub := range subscriptions {
		occurrences, err := sub.ProjectOccurrences(start, end)
		if err != nil {
			s.LogError(ctx, err, "Failed to project subscription", slog.String("subscription_id", sub.SubscriptionID))
			continue
		}
		virtual = append(virtual, occurrences...)
	}
	return virtual, nil
}

// matchesFilter applies the account, category and type filters to a virtual
// occurrence the way the store applies them to rows.
func matchesFilter(txn domain.Transaction, filter domain.TransactionFilter) bool {
	if filter.AccountID != nil && (txn.AccountID == nil || *txn.AccountID != *filter.AccountID) {
		return false
	}
	if filter.CategoryID != nil && (txn.CategoryID == nil || *txn.CategoryID != *filter.CategoryID) {
		return false
	}
	if filter.Type != nil && txn.Type != *filter.Type {
		return false
	}
	return true
}

// monthBounds returns the inclusive first and last instants of a calendar
// month in UTC.
func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
