package models

import (
	"github.com/shopspring/decimal"
)

// Account is the accounts table row. Names are unique per user,
// case-insensitively, enforced by a functional index.
type Account struct {
	AccountID string          `db:"account_id"`
	UserID    string          `db:"user_id"`
	Name      string          `db:"name"`
	Type      string          `db:"type"`
	Balance   decimal.Decimal `db:"balance"`
	AuditFields
}

// Category is the categories table row.
type Category struct {
	CategoryID string `db:"category_id"`
	UserID     string `db:"user_id"`
	Name       string `db:"name"`
	Color      string `db:"color"`
	AuditFields
}
