package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds income/expense/balance totals for a period or all time.
type Summary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transactionCount"`
}

// NewSummary returns a zeroed summary. decimal zero values are usable as-is,
// but constructing explicitly keeps JSON output at "0" rather than null.
func NewSummary() Summary {
	return Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		Balance:       decimal.Zero,
	}
}

// add applies one amount under the given transaction type. PAID transactions
// are excluded from totals entirely: settling an expense removes it from
// ongoing expense accounting.
func (s *Summary) add(txType TransactionType, amount decimal.Decimal) {
	switch txType {
	case Income:
		s.TotalIncome = s.TotalIncome.Add(amount)
		s.TransactionCount++
	case Expense:
		s.TotalExpenses = s.TotalExpenses.Add(amount)
		s.TransactionCount++
	}
}

// finish computes the balance. Negative balances are valid.
func (s *Summary) finish() {
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
}

// SummarizeAllTime totals the user's transactions with no date bound.
// Installment-plan transactions contribute through their installments' amounts
// rather than the parent amount, so a plan is never double counted.
func SummarizeAllTime(transactions []Transaction) Summary {
	summary := NewSummary()
	for _, tx := range transactions {
		if tx.IsInstallmentPlan {
			for _, inst := range tx.Installments {
				summary.add(tx.Type, inst.Amount)
			}
			continue
		}
		summary.add(tx.Type, tx.Amount)
	}
	summary.finish()
	return summary
}

// SummarizePeriod totals three disjoint sources over [start, end]:
// installments due in the period (attributed to their parent's type),
// non-plan transactions dated in the period, and virtual recurring
// occurrences falling in the period.
func SummarizePeriod(transactions []Transaction, virtual []Transaction, start, end time.Time) Summary {
	summary := NewSummary()
	inPeriod := func(t time.Time) bool {
		return !t.Before(start) && !t.After(end)
	}

	for _, tx := range transactions {
		if tx.IsInstallmentPlan {
			for _, inst := range tx.Installments {
				if inPeriod(inst.DueDate) {
					summary.add(tx.Type, inst.Amount)
				}
			}
			continue
		}
		if inPeriod(tx.Date) {
			summary.add(tx.Type, tx.Amount)
		}
	}

	for _, occ := range virtual {
		if inPeriod(occ.Date) {
			summary.add(occ.Type, occ.Amount)
		}
	}

	summary.finish()
	return summary
}
