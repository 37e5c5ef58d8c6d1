package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus is the settlement state of a debt.
type DebtStatus string

const (
	DebtPending DebtStatus = "PENDING"
	DebtPaid    DebtStatus = "PAID"
)

// Debtor is a third party who owes the user money.
type Debtor struct {
	DebtorID string `json:"debtorID"`
	UserID   string `json:"userID"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	AuditFields
}

// Debt is an amount owed by a debtor to the user. Status is stored, but the
// reported value is always derived through Reconcile.
type Debt struct {
	DebtID      string          `json:"debtID"`
	DebtorID    string          `json:"debtorID"`
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Status      DebtStatus      `json:"status"`
	CategoryID  *string         `json:"categoryID,omitempty"`
	AccountID   *string         `json:"accountID,omitempty"`

	// Derived by Reconcile, never stored.
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`

	Payments []Payment `json:"payments,omitempty"`
	AuditFields
}

// Payment is a partial or full settlement against one debt.
type Payment struct {
	PaymentID   string          `json:"paymentID"`
	DebtID      string          `json:"debtID"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Notes       string          `json:"notes,omitempty"`
	AuditFields
}

// Reconciliation is the derived financial state of a debt.
type Reconciliation struct {
	PaidAmount      decimal.Decimal
	RemainingAmount decimal.Decimal
	Status          DebtStatus
}

// Reconcile derives a debt's paid amount, remaining amount and status from its
// payments. Status is a one-way latch: once PAID, whether by payments reaching
// the total or by an explicit manual mark, it never reverts to PENDING even if
// payments are later edited or deleted.
func Reconcile(totalAmount decimal.Decimal, storedStatus DebtStatus, payments []Payment) Reconciliation {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	remaining := totalAmount.Sub(paid)

	status := DebtPending
	if remaining.LessThanOrEqual(decimal.Zero) {
		status = DebtPaid
	}
	if storedStatus == DebtPaid {
		status = DebtPaid
	}

	return Reconciliation{
		PaidAmount:      paid,
		RemainingAmount: remaining,
		Status:          status,
	}
}

// Reconciled returns a copy of the debt with the derived fields populated.
func (d Debt) Reconciled() Debt {
	rec := Reconcile(d.TotalAmount, d.Status, d.Payments)
	d.PaidAmount = rec.PaidAmount
	d.RemainingAmount = rec.RemainingAmount
	d.Status = rec.Status
	return d
}
