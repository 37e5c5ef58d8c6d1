package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a money movement.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
	// Paid is a terminal state for expenses whose installment plan has been
	// fully settled. Paid transactions are excluded from summary totals.
	Paid TransactionType = "PAID"
)

// InstallmentStatus is the payment state of a single installment.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
)

// InstallmentFrequency is the spacing between installment due dates.
type InstallmentFrequency string

const (
	InstallmentMonthly InstallmentFrequency = "MONTHLY"
	InstallmentWeekly  InstallmentFrequency = "WEEKLY"
)

// Transaction is a dated money movement owned by one user. A transaction may
// optionally reference a category, an account, the subscription that generated
// it, or carry an installment plan.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	UserID        string          `json:"userID"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Type          TransactionType `json:"type"`
	CategoryID    *string         `json:"categoryID,omitempty"`
	AccountID     *string         `json:"accountID,omitempty"`

	IsRecurring    bool    `json:"isRecurring"`
	SubscriptionID *string `json:"subscriptionID,omitempty"`

	IsInstallmentPlan    bool                 `json:"isInstallmentPlan"`
	InstallmentCount     int                  `json:"installmentCount,omitempty"`
	InstallmentFrequency InstallmentFrequency `json:"installmentFrequency,omitempty"`
	InstallmentAmount    decimal.Decimal      `json:"installmentAmount,omitempty"`
	FirstInstallmentDate *time.Time           `json:"firstInstallmentDate,omitempty"`

	// IsVirtual marks a projected recurring occurrence that exists only
	// in-memory. Virtual transactions are never persisted or payable.
	IsVirtual bool `json:"isVirtual,omitempty"`

	Installments []Installment `json:"installments,omitempty"`
	AuditFields
}

// TransactionFilter narrows a transaction listing. Nil fields are
// ignored. Month is 1-12 and only meaningful together with Year.
type TransactionFilter struct {
	Month      *int
	Year       *int
	AccountID  *string
	CategoryID *string
	Type       *TransactionType
}

// Installment is one scheduled slice of an installment-plan transaction.
type Installment struct {
	InstallmentID     string            `json:"installmentID"`
	TransactionID     string            `json:"transactionID"`
	InstallmentNumber int               `json:"installmentNumber"`
	Amount            decimal.Decimal   `json:"amount"`
	DueDate           time.Time         `json:"dueDate"`
	Status            InstallmentStatus `json:"status"`
	PaidDate          *time.Time        `json:"paidDate,omitempty"`
	AuditFields
}
