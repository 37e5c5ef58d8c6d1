package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name    string           `json:"name" binding:"required,max=100"`
	Type    string           `json:"type" binding:"required,max=50"`
	Balance *decimal.Decimal `json:"balance"` // Optional, defaults to zero
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Pointers distinguish omitted fields from zero-value fields.
type UpdateAccountRequest struct {
	Name    *string          `json:"name"`
	Type    *string          `json:"type"`
	Balance *decimal.Decimal `json:"balance"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		Name:      acc.Name,
		Type:      acc.Type,
		Balance:   acc.Balance,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
