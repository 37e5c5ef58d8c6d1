package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Subscription is the subscriptions table row. Names are unique per
// user, case-insensitively.
type Subscription struct {
	SubscriptionID  string          `db:"subscription_id"`
	UserID          string          `db:"user_id"`
	Name            string          `db:"name"`
	Description     sql.NullString  `db:"description"`
	Amount          decimal.Decimal `db:"amount"`
	Type            string          `db:"type"`
	Frequency       string          `db:"frequency"`
	StartDate       time.Time       `db:"start_date"`
	EndDate         sql.NullTime    `db:"end_date"`
	IsActive        bool            `db:"is_active"`
	NextPaymentDate time.Time       `db:"next_payment_date"`
	LastProcessedAt sql.NullTime    `db:"last_processed_at"`
	CategoryID      sql.NullString  `db:"category_id"`
	AccountID       sql.NullString  `db:"account_id"`
	AuditFields
}
