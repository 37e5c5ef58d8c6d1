package services

import (
	"context"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/dto"
)

// DebtorSvcFacade handles debtor operations for one user.
type DebtorSvcFacade interface {
	CreateDebtor(ctx context.Context, userID string, req dto.CreateDebtorRequest) (*domain.Debtor, error)
	GetDebtorByID(ctx context.Context, userID string, debtorID string) (*domain.Debtor, error)
	ListDebtors(ctx context.Context, userID string) ([]domain.Debtor, error)
	UpdateDebtor(ctx context.Context, userID string, debtorID string, req dto.UpdateDebtorRequest) (*domain.Debtor, error)
	DeleteDebtor(ctx context.Context, userID string, debtorID string) error
}
