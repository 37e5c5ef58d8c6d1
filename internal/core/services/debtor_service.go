package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/dto"
)

// debtorService provides debtor operations.
type debtorService struct {
	BaseService
	debtorRepo portsrepo.DebtorRepositoryFacade
}

// NewDebtorService creates a new debtor service.
func NewDebtorService(debtorRepo portsrepo.DebtorRepositoryFacade) portssvc.DebtorSvcFacade {
	return &debtorService{debtorRepo: debtorRepo}
}

var _ portssvc.DebtorSvcFacade = (*debtorService)(nil)

func (s *debtorService) CreateDebtor(ctx context.Context, userID string, req dto.CreateDebtorRequest) (*domain.Debtor, error) {
	now := time.Now()
	debtor := domain.Debtor{
		DebtorID: uuid.NewString(),
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.debtorRepo.SaveDebtor(ctx, debtor); err != nil {
		s.LogError(ctx, err, "Failed to save debtor", slog.String("debtor_id", debtor.DebtorID))
		return nil, err
	}

	s.LogInfo(ctx, "Debtor created", slog.String("debtor_id", debtor.DebtorID))
	return &debtor, nil
}

func (s *debtorService) GetDebtorByID(ctx context.Context, userID string, debtorID string) (*domain.Debtor, error) {
	debtor, err := s.debtorRepo.FindDebtorByID(ctx, userID, debtorID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find debtor", slog.String("debtor_id", debtorID))
		}
		return nil, err
	}
	return debtor, nil
}

func (s *debtorService) ListDebtors(ctx context.Context, userID string) ([]domain.Debtor, error) {
	debtors, err := s.debtorRepo.ListDebtors(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list debtors")
		return nil, err
	}
	return debtors, nil
}

func (s *debtorService) UpdateDebtor(ctx context.Context, userID string, debtorID string, req dto.UpdateDebtorRequest) (*domain.Debtor, error) {
	debtor, err := s.debtorRepo.FindDebtorByID(ctx, userID, debtorID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		debtor.Name = *req.Name
	}
	if req.Email != nil {
		debtor.Email = *req.Email
	}
	if req.Phone != nil {
		debtor.Phone = *req.Phone
	}
	debtor.UpdatedAt = time.Now()

	if err := s.debtorRepo.UpdateDebtor(ctx, *debtor); err != nil {
		s.LogError(ctx, err, "Failed to update debtor", slog.String("debtor_id", debtorID))
		return nil, err
	}

	s.LogInfo(ctx, "Debtor updated", slog.String("debtor_id", debtorID))
	return debtor, nil
}

// DeleteDebtor removes a debtor with all their debts and payments.
func (s *debtorService) DeleteDebtor(ctx context.Context, userID string, debtorID string) error {
	if err := s.debtorRepo.DeleteDebtor(ctx, userID, debtorID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete debtor", slog.String("debtor_id", debtorID))
		}
		return err
	}
	s.LogInfo(ctx, "Debtor deleted", slog.String("debtor_id", debtorID))
	return nil
}
