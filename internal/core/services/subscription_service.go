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

// subscriptionService provides subscription lifecycle, projection and the
// due-subscription processor.
type subscriptionService struct {
	BaseService
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade
	publisher        *events.Publisher
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(subscriptionRepo portsrepo.SubscriptionRepositoryFacade, publisher *events.Publisher) portssvc.SubscriptionSvcFacade {
	return &subscriptionService{subscriptionRepo: subscriptionRepo, publisher: publisher}
}

var _ portssvc.SubscriptionSvcFacade = (*subscriptionService)(nil)

func (s *subscriptionService) GetSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindSubscriptionByID(ctx, userID, subscriptionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find subscription", slog.String("subscription_id", subscriptionID))
		}
		return nil, err
	}
	return subscription, nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	subscriptions, err := s.subscriptionRepo.ListSubscriptions(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list subscriptions")
		return nil, err
	}
	return subscriptions, nil
}

// ListUpcoming returns active subscriptions due within the next given number
// of days, overdue ones included.
func (s *subscriptionService) ListUpcoming(ctx context.Context, userID string, days int) ([]domain.Subscription, error) {
	now := time.Now()
	subscriptions, err := s.subscriptionRepo.ListUpcomingSubscriptions(ctx, userID, time.Time{}, now.AddDate(0, 0, days))
	if err != nil {
		s.LogError(ctx, err, "Failed to list upcoming subscriptions")
		return nil, err
	}
	return subscriptions, nil
}

func (s *subscriptionService) ProjectOccurrences(ctx context.Context, userID string, start time.Time, end time.Time) ([]domain.Transaction, error) {
	subscriptions, err := s.subscriptionRepo.ListActiveSubscriptions(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active subscriptions")
		return nil, err
	}

	var occurrences []domain.Transaction
	for _, sub := range subscriptions {
		projected, err := sub.ProjectOccurrences(start, end)
		if err != nil {
			s.LogError(ctx, err, "Failed to project subscription", slog.String("subscription_id", sub.SubscriptionID))
			continue
		}
		occurrences = append(occurrences, projected...)
	}
	return occurrences, nil
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, userID string, req dto.CreateSubscriptionRequest) (*domain.Subscription, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNonPositiveAmount)
	}

	existing, err := s.subscriptionRepo.FindSubscriptionByName(ctx, userID, req.Name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: subscription %q already exists", apperrors.ErrDuplicate, req.Name)
	}

	nextPayment := req.StartDate
	if req.NextPaymentDate != nil {
		nextPayment = *req.NextPaymentDate
	}

	now := time.Now()
	subscription := domain.Subscription{
		SubscriptionID:  uuid.NewString(),
		UserID:          userID,
		Name:            req.Name,
		Description:     req.Description,
		Amount:          req.Amount,
		Type:            req.Type,
		Frequency:       req.Frequency,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        true,
		NextPaymentDate: nextPayment,
		CategoryID:      req.CategoryID,
		AccountID:       req.AccountID,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.subscriptionRepo.SaveSubscription(ctx, subscription); err != nil {
		s.LogError(ctx, err, "Failed to save subscription", slog.String("subscription_id", subscription.SubscriptionID))
		return nil, err
	}

	s.LogInfo(ctx, "Subscription created", slog.String("subscription_id", subscription.SubscriptionID))
	return &subscription, nil
}

func (s *subscriptionService) UpdateSubscription(ctx context.Context, userID string, subscriptionID string, req dto.UpdateSubscriptionRequest) (*domain.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindSubscriptionByID(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != subscription.Name {
		existing, err := s.subscriptionRepo.FindSubscriptionByName(ctx, userID, *req.Name)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: subscription %q already exists", apperrors.ErrDuplicate, *req.Name)
		}
		subscription.Name = *req.Name
	}
	if req.Description != nil {
		subscription.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNonPositiveAmount)
		}
		subscription.Amount = *req.Amount
	}
	if req.Type != nil {
		subscription.Type = *req.Type
	}
	if req.Frequency != nil {
		subscription.Frequency = *req.Frequency
	}
	if req.EndDate != nil {
		subscription.EndDate = req.EndDate
	}
	if req.NextPaymentDate != nil {
		subscription.NextPaymentDate = *req.NextPaymentDate
	}
	if req.IsActive != nil {
		subscription.IsActive = *req.IsActive
	}
	if req.CategoryID != nil {
		subscription.CategoryID = req.CategoryID
	}
	if req.AccountID != nil {
		subscription.AccountID = req.AccountID
	}
	subscription.UpdatedAt = time.Now()

	if err := s.subscriptionRepo.UpdateSubscription(ctx, *subscription); err != nil {
		s.LogError(ctx, err, "Failed to update subscription", slog.String("subscription_id", subscriptionID))
		return nil, err
	}
	return subscription, nil
}

func (s *subscriptionService) DeleteSubscription(ctx context.Context, userID string, subscriptionID string) error {
	if err := s.subscriptionRepo.DeleteSubscription(ctx, userID, subscriptionID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete subscription", slog.String("subscription_id", subscriptionID))
		}
		return err
	}
	s.LogInfo(ctx, "Subscription deleted", slog.String("subscription_id", subscriptionID))
	return nil
}

func (s *subscriptionService) ToggleSubscription(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindSubscriptionByID(ctx, userID, subscriptionID)
	if err != nil {
		return nil, err
	}

	subscription.IsActive = !subscription.IsActive
	subscription.UpdatedAt = time.Now()

	if err := s.subscriptionRepo.UpdateSubscription(ctx, *subscription); err != nil {
		s.LogError(ctx, err, "Failed to toggle subscription", slog.String("subscription_id", subscriptionID))
		return nil, err
	}

	s.LogInfo(ctx, "Subscription toggled",
		slog.String("subscription_id", subscriptionID),
		slog.Bool("is_active", subscription.IsActive))
	return subscription, nil
}

// ProcessDueSubscriptions materializes every due subscription into a real
// transaction, at most one occurrence per subscription per call. A nil userID
// processes all users. One subscription failing never aborts the batch; its
// error lands in the result. A concurrent processor winning the race on a
// subscription counts as neither processed nor failed.
func (s *subscriptionService) ProcessDueSubscriptions(ctx context.Context, userID *string, now time.Time) (*domain.ProcessResult, error) {
	due, err := s.subscriptionRepo.ListDueSubscriptions(ctx, userID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due subscriptions")
		return nil, err
	}

	result := &domain.ProcessResult{Errors: []domain.ProcessError{}}
	for _, sub := range due {
		if err := s.processOne(ctx, sub, now); err != nil {
			if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, errSubscriptionEnded) {
				continue
			}
			s.LogError(ctx, err, "Failed to process subscription",
				slog.String("subscription_id", sub.SubscriptionID))
			result.Errors = append(result.Errors, domain.ProcessError{
				SubscriptionID: sub.SubscriptionID,
				Name:           sub.Name,
				Error:          err.Error(),
			})
			continue
		}
		result.ProcessedCount++
	}

	s.LogInfo(ctx, "Subscription processing finished",
		slog.Int("processed", result.ProcessedCount),
		slog.Int("failed", len(result.Errors)))
	return result, nil
}

// errSubscriptionEnded marks a due subscription whose end date passed before
// its next occurrence. The store query already excludes these; the guard
// keeps a stale read from materializing a charge past the end date.
var errSubscriptionEnded = errors.New("subscription ended before its next payment date")

// processOne materializes a single due occurrence: the charge dated at the
// stored next payment date, with the pointer advanced one frequency step.
// Skipping past occurrences beyond the first is deliberate; a long-idle
// subscription catches up one occurrence per processing run.
func (s *subscriptionService) processOne(ctx context.Context, sub domain.Subscription, now time.Time) error {
	if sub.EndDate != nil && sub.NextPaymentDate.After(*sub.EndDate) {
		return errSubscriptionEnded
	}

	next, err := domain.NextPaymentDate(sub.NextPaymentDate, sub.Frequency)
	if err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
	}

	charge := sub.MaterializedTransaction(uuid.NewString(), now)
	if err := s.subscriptionRepo.ProcessSubscription(ctx, sub, charge, next); err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.SubscriptionProcessed{
		SubscriptionID:  sub.SubscriptionID,
		UserID:          sub.UserID,
		TransactionID:   charge.TransactionID,
		Amount:          charge.Amount,
		NextPaymentDate: next,
	})
	return nil
}
