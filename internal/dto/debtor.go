package dto

import (
	"time"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// CreateDebtorRequest defines the data needed to create a debtor.
type CreateDebtorRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=30"`
}

// UpdateDebtorRequest defines the data allowed for updating a debtor.
type UpdateDebtorRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

// DebtorResponse defines the data returned for a debtor.
type DebtorResponse struct {
	DebtorID  string    `json:"debtorID"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToDebtorResponse converts a domain.Debtor to DebtorResponse DTO
func ToDebtorResponse(d *domain.Debtor) DebtorResponse {
	return DebtorResponse{
		DebtorID:  d.DebtorID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToListDebtorResponse converts a slice of domain.Debtor to DebtorResponse DTOs
func ToListDebtorResponse(debtors []domain.Debtor) []DebtorResponse {
	res := make([]DebtorResponse, len(debtors))
	for i, d := range debtors {
		res[i] = ToDebtorResponse(&d)
	}
	return res
}
