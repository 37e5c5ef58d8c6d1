package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents an application user. All other entities are owned by a user,
// directly or through their debtor.
type User struct {
	UserID           string     `json:"userID"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	GoogleID         string     `json:"-"` // set for accounts linked via Google sign-in
	ResetToken       string     `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	AuditFields
}

// Account is a named money container owned by one user.
// Names are unique per user, case-insensitively.
type Account struct {
	AccountID string          `json:"accountID"`
	UserID    string          `json:"userID"`
	Name      string          `json:"name"`
	Type      string          `json:"type"` // checking, savings, wallet, ...
	Balance   decimal.Decimal `json:"balance"`
	AuditFields
}

// Category is a named label with a display color, owned by one user.
// Names are unique per user, case-insensitively.
type Category struct {
	CategoryID string `json:"categoryID"`
	UserID     string `json:"userID"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	AuditFields
}
