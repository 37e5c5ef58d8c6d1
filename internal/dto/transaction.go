package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to record a
// transaction. Besides a plain movement it can open an installment
// plan, spawn a subscription (IsRecurring) or register a payment
// against a debt (DebtID), in which case the transaction itself is not
// stored.
type CreateTransactionRequest struct {
	Description string                 `json:"description" binding:"required,max=255"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Date        time.Time              `json:"date" binding:"required"`
	Type        domain.TransactionType `json:"type" binding:"required,txtype"`
	CategoryID  *string                `json:"categoryID"`
	AccountID   *string                `json:"accountID"`

	IsRecurring bool                          `json:"isRecurring"`
	Frequency   *domain.SubscriptionFrequency `json:"frequency" binding:"omitempty,frequency"`

	IsInstallmentPlan    bool                         `json:"isInstallmentPlan"`
	InstallmentCount     *int                         `json:"installmentCount" binding:"omitempty,min=2,max=48"`
	InstallmentFrequency *domain.InstallmentFrequency `json:"installmentFrequency" binding:"omitempty,oneof=MONTHLY WEEKLY"`
	FirstInstallmentDate *time.Time                   `json:"firstInstallmentDate"`

	DebtID *string `json:"debtID"`
}

// UpdateTransactionRequest defines the data allowed for updating a
// transaction. Pointers distinguish omitted fields from zero-value
// fields. Plan structure is immutable after creation.
type UpdateTransactionRequest struct {
	Description *string                 `json:"description"`
	Amount      *decimal.Decimal        `json:"amount"`
	Date        *time.Time              `json:"date"`
	Type        *domain.TransactionType `json:"type" binding:"omitempty,txtype"`
	CategoryID  *string                 `json:"categoryID"`
	AccountID   *string                 `json:"accountID"`
}

// ListTransactionsParams defines query parameters for listing
// transactions.
type ListTransactionsParams struct {
	Month      *int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year       *int    `form:"year" binding:"omitempty,min=1970,max=2200"`
	AccountID  *string `form:"accountID"`
	CategoryID *string `form:"categoryID"`
}

// PartialPaymentRequest applies an arbitrary amount to an installment
// plan's pending installments.
type PartialPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// PartialPaymentResponse reports which installments the amount covered
// and what was left over.
type PartialPaymentResponse struct {
	PaidInstallmentIDs []string        `json:"paidInstallmentIDs"`
	PaidAmount         decimal.Decimal `json:"paidAmount"`
	RemainingAmount    decimal.Decimal `json:"remainingAmount"`
}

// InstallmentResponse defines the data returned for one installment.
type InstallmentResponse struct {
	InstallmentID     string                   `json:"installmentID"`
	TransactionID     string                   `json:"transactionID"`
	InstallmentNumber int                      `json:"installmentNumber"`
	Amount            decimal.Decimal          `json:"amount"`
	DueDate           time.Time                `json:"dueDate"`
	Status            domain.InstallmentStatus `json:"status"`
	PaidDate          *time.Time               `json:"paidDate,omitempty"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                 `json:"transactionID"`
	Description   string                 `json:"description"`
	Amount        decimal.Decimal        `json:"amount"`
	Date          time.Time              `json:"date"`
	Type          domain.TransactionType `json:"type"`
	CategoryID    *string                `json:"categoryID,omitempty"`
	AccountID     *string                `json:"accountID,omitempty"`

	IsRecurring    bool    `json:"isRecurring"`
	SubscriptionID *string `json:"subscriptionID,omitempty"`

	IsInstallmentPlan    bool                         `json:"isInstallmentPlan"`
	InstallmentCount     int                          `json:"installmentCount,omitempty"`
	InstallmentFrequency *domain.InstallmentFrequency `json:"installmentFrequency,omitempty"`
	Installments         []InstallmentResponse        `json:"installments,omitempty"`

	IsVirtual bool `json:"isVirtual,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SummaryResponse defines the aggregated financial summary.
type SummaryResponse struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
}

// ToInstallmentResponse converts a domain.Installment to InstallmentResponse DTO
func ToInstallmentResponse(inst *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID:     inst.InstallmentID,
		TransactionID:     inst.TransactionID,
		InstallmentNumber: inst.InstallmentNumber,
		Amount:            inst.Amount,
		DueDate:           inst.DueDate,
		Status:            inst.Status,
		PaidDate:          inst.PaidDate,
	}
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:     txn.TransactionID,
		Description:       txn.Description,
		Amount:            txn.Amount,
		Date:              txn.Date,
		Type:              txn.Type,
		CategoryID:        txn.CategoryID,
		AccountID:         txn.AccountID,
		IsRecurring:       txn.IsRecurring,
		SubscriptionID:    txn.SubscriptionID,
		IsInstallmentPlan: txn.IsInstallmentPlan,
		InstallmentCount:  txn.InstallmentCount,
		IsVirtual:         txn.IsVirtual,
		CreatedAt:         txn.CreatedAt,
		UpdatedAt:         txn.UpdatedAt,
	}
	if txn.IsInstallmentPlan {
		freq := txn.InstallmentFrequency
		resp.InstallmentFrequency = &freq
	}
	if len(txn.Installments) > 0 {
		resp.Installments = make([]InstallmentResponse, len(txn.Installments))
		for i, inst := range txn.Installments {
			resp.Installments[i] = ToInstallmentResponse(&inst)
		}
	}
	return resp
}

// ToListTransactionResponse converts a slice of domain.Transaction to TransactionResponse DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}

// ToSummaryResponse converts a domain.Summary to SummaryResponse DTO
func ToSummaryResponse(s *domain.Summary) SummaryResponse {
	return SummaryResponse{
		TotalIncome:      s.TotalIncome,
		TotalExpenses:    s.TotalExpenses,
		Balance:          s.Balance,
		TransactionCount: s.TransactionCount,
	}
}
