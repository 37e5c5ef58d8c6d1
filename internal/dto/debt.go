package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// CreateDebtRequest defines the data needed to record a new debt.
type CreateDebtRequest struct {
	DebtorID    string          `json:"debtorID" binding:"required"`
	Description string          `json:"description" binding:"required,max=255"`
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"required"`
	DueDate     *time.Time      `json:"dueDate"`
	CategoryID  *string         `json:"categoryID"`
	AccountID   *string         `json:"accountID"`
}

// UpdateDebtRequest defines the data allowed for updating a debt.
// Pointers distinguish omitted fields from zero-value fields.
type UpdateDebtRequest struct {
	Description *string            `json:"description"`
	TotalAmount *decimal.Decimal   `json:"totalAmount"`
	DueDate     *time.Time         `json:"dueDate"`
	Status      *domain.DebtStatus `json:"status" binding:"omitempty,oneof=PENDING PAID"`
	CategoryID  *string            `json:"categoryID"`
	AccountID   *string            `json:"accountID"`
}

// CreatePaymentRequest defines the data needed to record a payment
// against a debt.
type CreatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate *time.Time      `json:"paymentDate"` // Optional, defaults to now
	Notes       string          `json:"notes" binding:"max=255"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID   string          `json:"paymentID"`
	DebtID      string          `json:"debtID"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// DebtResponse defines the data returned for a debt, including the
// derived reconciliation fields.
type DebtResponse struct {
	DebtID          string            `json:"debtID"`
	DebtorID        string            `json:"debtorID"`
	Description     string            `json:"description"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	PaidAmount      decimal.Decimal   `json:"paidAmount"`
	RemainingAmount decimal.Decimal   `json:"remainingAmount"`
	Status          domain.DebtStatus `json:"status"`
	DueDate         *time.Time        `json:"dueDate,omitempty"`
	CategoryID      *string           `json:"categoryID,omitempty"`
	AccountID       *string           `json:"accountID,omitempty"`
	Payments        []PaymentResponse `json:"payments,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:   p.PaymentID,
		DebtID:      p.DebtID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

// ToListPaymentResponse converts a slice of domain.Payment to PaymentResponse DTOs
func ToListPaymentResponse(payments []domain.Payment) []PaymentResponse {
	res := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		res[i] = ToPaymentResponse(&p)
	}
	return res
}

// ToDebtResponse converts a domain.Debt to DebtResponse DTO
func ToDebtResponse(d *domain.Debt) DebtResponse {
	return DebtResponse{
		DebtID:          d.DebtID,
		DebtorID:        d.DebtorID,
		Description:     d.Description,
		TotalAmount:     d.TotalAmount,
		PaidAmount:      d.PaidAmount,
		RemainingAmount: d.RemainingAmount,
		Status:          d.Status,
		DueDate:         d.DueDate,
		CategoryID:      d.CategoryID,
		AccountID:       d.AccountID,
		Payments:        ToListPaymentResponse(d.Payments),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToListDebtResponse converts a slice of domain.Debt to DebtResponse DTOs
func ToListDebtResponse(debts []domain.Debt) []DebtResponse {
	res := make([]DebtResponse, len(debts))
	for i, d := range debts {
		res[i] = ToDebtResponse(&d)
	}
	return res
}
