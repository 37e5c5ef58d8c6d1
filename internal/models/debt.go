package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Debtor is the debtors table row.
type Debtor struct {
	DebtorID string         `db:"debtor_id"`
	UserID   string         `db:"user_id"`
	Name     string         `db:"name"`
	Email    sql.NullString `db:"email"`
	Phone    sql.NullString `db:"phone"`
	AuditFields
}

// Debt is the debts table row. Paid and remaining amounts are not
// stored; they are derived from payments on every read.
type Debt struct {
	DebtID      string          `db:"debt_id"`
	DebtorID    string          `db:"debtor_id"`
	Description string          `db:"description"`
	TotalAmount decimal.Decimal `db:"total_amount"`
	DueDate     sql.NullTime    `db:"due_date"`
	Status      string          `db:"status"`
	CategoryID  sql.NullString  `db:"category_id"`
	AccountID   sql.NullString  `db:"account_id"`
	AuditFields
}

// Payment is the payments table row.
type Payment struct {
	PaymentID   string          `db:"payment_id"`
	DebtID      string          `db:"debt_id"`
	Amount      decimal.Decimal `db:"amount"`
	PaymentDate time.Time       `db:"payment_date"`
	Notes       sql.NullString  `db:"notes"`
	AuditFields
}
