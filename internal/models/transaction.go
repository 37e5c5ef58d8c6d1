package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the transactions table row.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	UserID        string          `db:"user_id"`
	Description   string          `db:"description"`
	Amount        decimal.Decimal `db:"amount"`
	Date          time.Time       `db:"date"`
	Type          string          `db:"type"`
	CategoryID    sql.NullString  `db:"category_id"`
	AccountID     sql.NullString  `db:"account_id"`

	IsRecurring    bool           `db:"is_recurring"`
	SubscriptionID sql.NullString `db:"subscription_id"`

	IsInstallmentPlan    bool                `db:"is_installment_plan"`
	InstallmentCount     sql.NullInt32       `db:"installment_count"`
	InstallmentFrequency sql.NullString      `db:"installment_frequency"`
	InstallmentAmount    decimal.NullDecimal `db:"installment_amount"`
	FirstInstallmentDate sql.NullTime        `db:"first_installment_date"`

	AuditFields
}

// Installment is the installments table row.
type Installment struct {
	InstallmentID     string          `db:"installment_id"`
	TransactionID     string          `db:"transaction_id"`
	InstallmentNumber int             `db:"installment_number"`
	Amount            decimal.Decimal `db:"amount"`
	DueDate           time.Time       `db:"due_date"`
	Status            string          `db:"status"`
	PaidDate          sql.NullTime    `db:"paid_date"`
	AuditFields
}
