package services

import (
	"context"
	"time"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/dto"
)

// SubscriptionReaderSvc handles subscription reads and projections.
type SubscriptionReaderSvc interface {
	GetSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error)
	ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)

	// ListUpcoming returns active subscriptions due within the next
	// given number of days.
	ListUpcoming(ctx context.Context, userID string, days int) ([]domain.Subscription, error)

	// ProjectOccurrences computes virtual occurrences of the user's
	// active subscriptions inside [start, end]. Nothing is persisted.
	ProjectOccurrences(ctx context.Context, userID string, start time.Time, end time.Time) ([]domain.Transaction, error)
}

// SubscriptionWriterSvc handles subscription writes and processing.
type SubscriptionWriterSvc interface {
	CreateSubscription(ctx context.Context, userID string, req dto.CreateSubscriptionRequest) (*domain.Subscription, error)
	UpdateSubscription(ctx context.Context, userID string, subscriptionID string, req dto.UpdateSubscriptionRequest) (*domain.Subscription, error)
	DeleteSubscription(ctx context.Context, userID string, subscriptionID string) error

	// ToggleSubscription flips a subscription between active and
	// paused.
	ToggleSubscription(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error)

	// ProcessDueSubscriptions materializes every due subscription into
	// a real transaction, one frequency step per call. A nil userID
	// processes all users. Failures are isolated per subscription and
	// reported in the result.
	ProcessDueSubscriptions(ctx context.Context, userID *string, now time.Time) (*domain.ProcessResult, error)
}

// SubscriptionSvcFacade combines all subscription service capabilities.
type SubscriptionSvcFacade interface {
	SubscriptionReaderSvc
	SubscriptionWriterSvc
}
