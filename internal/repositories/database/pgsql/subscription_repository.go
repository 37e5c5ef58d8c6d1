package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	"github.com/finbook/finbook_backend/internal/models"
)

type PgxSubscriptionRepository struct {
	BaseRepository
}

// newPgxSubscriptionRepository creates a new repository for subscription data.
func newPgxSubscriptionRepository(pool *pgxpool.Pool) portsrepo.SubscriptionRepositoryFacade {
	return &PgxSubscriptionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SubscriptionRepositoryFacade = (*PgxSubscriptionRepository)(nil)

const subscriptionColumns = `subscription_id, user_id, name, description, amount, type, frequency, start_date,
	end_date, is_active, next_payment_date, last_processed_at, category_id, account_id, created_at, updated_at`

func toModelSubscription(d domain.Subscription) models.Subscription {
	m := models.Subscription{
		SubscriptionID:  d.SubscriptionID,
		UserID:          d.UserID,
		Name:            d.Name,
		Amount:          d.Amount,
		Type:            string(d.Type),
		Frequency:       string(d.Frequency),
		StartDate:       d.StartDate,
		EndDate:         nullTime(d.EndDate),
		IsActive:        d.IsActive,
		NextPaymentDate: d.NextPaymentDate,
		LastProcessedAt: nullTime(d.LastProcessedAt),
		CategoryID:      nullString(d.CategoryID),
		AccountID:       nullString(d.AccountID),
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
	if d.Description != "" {
		m.Description.String = d.Description
		m.Description.Valid = true
	}
	return m
}

func toDomainSubscription(m models.Subscription) domain.Subscription {
	return domain.Subscription{
		SubscriptionID:  m.SubscriptionID,
		UserID:          m.UserID,
		Name:            m.Name,
		Description:     m.Description.String,
		Amount:          m.Amount,
		Type:            domain.TransactionType(m.Type),
		Frequency:       domain.SubscriptionFrequency(m.Frequency),
		StartDate:       m.StartDate,
		EndDate:         fromNullTime(m.EndDate),
		IsActive:        m.IsActive,
		NextPaymentDate: m.NextPaymentDate,
		LastProcessedAt: fromNullTime(m.LastProcessedAt),
		CategoryID:      fromNullString(m.CategoryID),
		AccountID:       fromNullString(m.AccountID),
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

func scanSubscription(row interface{ Scan(dest ...any) error }) (models.Subscription, error) {
	var m models.Subscription
	err := row.Scan(
		&m.SubscriptionID, &m.UserID, &m.Name, &m.Description, &m.Amount, &m.Type, &m.Frequency, &m.StartDate,
		&m.EndDate, &m.IsActive, &m.NextPaymentDate, &m.LastProcessedAt, &m.CategoryID, &m.AccountID,
		&m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *PgxSubscriptionRepository) SaveSubscription(ctx context.Context, subscription domain.Subscription) error {
	m := toModelSubscription(subscription)

	query := `
		INSERT INTO subscriptions (` + subscriptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.SubscriptionID, m.UserID, m.Name, m.Description, m.Amount, m.Type, m.Frequency, m.StartDate,
		m.EndDate, m.IsActive, m.NextPaymentDate, m.LastProcessedAt, m.CategoryID, m.AccountID,
		m.CreatedAt, m.UpdatedAt,
	)
	return translateError(err, "save subscription")
}

func (r *PgxSubscriptionRepository) FindSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE subscription_id = $1 AND user_id = $2;`

	m, err := scanSubscription(r.Pool.QueryRow(ctx, query, subscriptionID, userID))
	if err != nil {
		return nil, translateError(err, "find subscription")
	}
	d := toDomainSubscription(m)
	return &d, nil
}

func (r *PgxSubscriptionRepository) FindSubscriptionByName(ctx context.Context, userID string, name string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 AND lower(name) = lower($2);`

	m, err := scanSubscription(r.Pool.QueryRow(ctx, query, userID, name))
	if err != nil {
		return nil, translateError(err, "find subscription by name")
	}
	d := toDomainSubscription(m)
	return &d, nil
}

func (r *PgxSubscriptionRepository) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 ORDER BY next_payment_date;`
	return r.listSubscriptions(ctx, query, userID)
}

func (r *PgxSubscriptionRepository) ListActiveSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 AND is_active = TRUE ORDER BY next_payment_date;`
	return r.listSubscriptions(ctx, query, userID)
}

// ListDueSubscriptions returns active subscriptions due as of the given
// instant, across all users when userID is nil. Subscriptions whose end date
// has passed are excluded rather than surfaced as processing errors.
func (r *PgxSubscriptionRepository) ListDueSubscriptions(ctx context.Context, userID *string, asOf time.Time) ([]domain.Subscription, error) {
	if userID != nil {
		query := `
			SELECT ` + subscriptionColumns + `
			FROM subscriptions
			WHERE is_active = TRUE AND next_payment_date <= $1
			  AND (end_date IS NULL OR end_date >= $1)
			  AND user_id = $2
			ORDER BY next_payment_date;
		`
		return r.listSubscriptions(ctx, query, asOf, *userID)
	}
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE is_active = TRUE AND next_payment_date <= $1
		  AND (end_date IS NULL OR end_date >= $1)
		ORDER BY next_payment_date;
	`
	return r.listSubscriptions(ctx, query, asOf)
}

func (r *PgxSubscriptionRepository) ListUpcomingSubscriptions(ctx context.Context, userID string, from time.Time, to time.Time) ([]domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE user_id = $1 AND is_active = TRUE AND next_payment_date >= $2 AND next_payment_date <= $3
		ORDER BY next_payment_date;
	`
	return r.listSubscriptions(ctx, query, userID, from, to)
}

func (r *PgxSubscriptionRepository) listSubscriptions(ctx context.Context, query string, args ...any) ([]domain.Subscription, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list subscriptions")
	}
	defer rows.Close()

	subscriptions := []domain.Subscription{}
	for rows.Next() {
		m, err := scanSubscription(rows)
		if err != nil {
			return nil, translateError(err, "scan subscription row")
		}
		subscriptions = append(subscriptions, toDomainSubscription(m))
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate subscription rows")
	}
	return subscriptions, nil
}

func (r *PgxSubscriptionRepository) UpdateSubscription(ctx context.Context, subscription domain.Subscription) error {
	m := toModelSubscription(subscription)

	query := `
		UPDATE subscriptions
		SET name = $3, description = $4, amount = $5, type = $6, frequency = $7, end_date = $8,
		    is_active = $9, next_payment_date = $10, category_id = $11, account_id = $12, updated_at = $13
		WHERE subscription_id = $1 AND user_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.SubscriptionID, m.UserID, m.Name, m.Description, m.Amount, m.Type, m.Frequency, m.EndDate,
		m.IsActive, m.NextPaymentDate, m.CategoryID, m.AccountID, m.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update subscription")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteSubscription removes a subscription. Transactions it generated
// keep existing with a NULL subscription reference (ON DELETE SET NULL).
func (r *PgxSubscriptionRepository) DeleteSubscription(ctx context.Context, userID string, subscriptionID string) error {
	query := `DELETE FROM subscriptions WHERE subscription_id = $1 AND user_id = $2;`

	cmdTag, err := r.Pool.Exec(ctx, query, subscriptionID, userID)
	if err != nil {
		return translateError(err, "delete subscription")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ProcessSubscription materializes one due charge atomically. The row is
// locked and the stored next payment date compared against the one the
// caller read; a mismatch means another processor got here first and
// yields ErrConflict.
func (r *PgxSubscriptionRepository) ProcessSubscription(ctx context.Context, subscription domain.Subscription, charge domain.Transaction, nextPaymentDate time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT next_payment_date
		FROM subscriptions
		WHERE subscription_id = $1 AND user_id = $2
		FOR UPDATE;
	`
	var storedNext time.Time
	if err := tx.QueryRow(ctx, lockQuery, subscription.SubscriptionID, subscription.UserID).Scan(&storedNext); err != nil {
		return translateError(err, "lock subscription")
	}
	if !storedNext.Equal(subscription.NextPaymentDate) {
		return fmt.Errorf("%w: subscription already processed", apperrors.ErrConflict)
	}

	if err := insertTransactionTx(ctx, tx, charge); err != nil {
		return err
	}

	// last_processed_at records the occurrence just charged, not the
	// processing instant: a long-overdue subscription processed today still
	// reports the overdue occurrence date.
	updated := subscription.AfterProcessing(nextPaymentDate, time.Now())
	advanceQuery := `
		UPDATE subscriptions
		SET next_payment_date = $2, last_processed_at = $3, updated_at = $4
		WHERE subscription_id = $1;
	`
	if _, err := tx.Exec(ctx, advanceQuery, subscription.SubscriptionID, updated.NextPaymentDate, updated.LastProcessedAt, updated.UpdatedAt); err != nil {
		return translateError(err, "advance subscription")
	}

	return r.Commit(ctx, tx)
}
