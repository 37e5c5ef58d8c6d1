package repositories

import (
	"context"
	"time"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// SubscriptionReader handles read operations for subscriptions.
type SubscriptionReader interface {
	FindSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error)
	FindSubscriptionByName(ctx context.Context, userID string, name string) (*domain.Subscription, error)
	ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)
	ListActiveSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)

	// ListDueSubscriptions returns active subscriptions whose next
	// payment date is not after the given instant. A nil userID scans
	// across all users, which is what the background processor needs.
	ListDueSubscriptions(ctx context.Context, userID *string, asOf time.Time) ([]domain.Subscription, error)

	// ListUpcomingSubscriptions returns active subscriptions whose
	// next payment date falls inside [from, to].
	ListUpcomingSubscriptions(ctx context.Context, userID string, from time.Time, to time.Time) ([]domain.Subscription, error)
}

// SubscriptionWriter handles write operations for subscriptions.
type SubscriptionWriter interface {
	SaveSubscription(ctx context.Context, subscription domain.Subscription) error
	UpdateSubscription(ctx context.Context, subscription domain.Subscription) error
	DeleteSubscription(ctx context.Context, userID string, subscriptionID string) error

	// ProcessSubscription materializes one charge: it locks the
	// subscription row, verifies the next payment date has not moved
	// since the subscription was read, inserts the given transaction
	// and advances the next payment date, all atomically. Returns
	// apperrors.ErrConflict when another processor already advanced
	// the subscription.
	ProcessSubscription(ctx context.Context, subscription domain.Subscription, charge domain.Transaction, nextPaymentDate time.Time) error
}

// SubscriptionRepositoryFacade combines all subscription repository
// capabilities.
type SubscriptionRepositoryFacade interface {
	SubscriptionReader
	SubscriptionWriter
}
