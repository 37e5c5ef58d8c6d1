package domain_test

import (
	"testing"
	"time"

	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeAllTime(t *testing.T) {
	transactions := []domain.Transaction{
		{Type: domain.Income, Amount: decimal.NewFromInt(1000)},
		{Type: domain.Expense, Amount: decimal.NewFromInt(300)},
		{
			// installment plan contributes via its slices, not the parent amount
			Type:              domain.Expense,
			Amount:            decimal.NewFromInt(120),
			IsInstallmentPlan: true,
			Installments: []domain.Installment{
				{Amount: decimal.NewFromInt(40)},
				{Amount: decimal.NewFromInt(40)},
				{Amount: decimal.NewFromInt(40)},
			},
		},
		// PAID transactions are excluded from totals entirely
		{Type: domain.Paid, Amount: decimal.NewFromInt(999)},
	}

	summary := domain.SummarizeAllTime(transactions)

	assert.True(t, decimal.NewFromInt(1000).Equal(summary.TotalIncome), "income %s", summary.TotalIncome)
	assert.True(t, decimal.NewFromInt(420).Equal(summary.TotalExpenses), "expenses %s", summary.TotalExpenses)
	assert.True(t, decimal.NewFromInt(580).Equal(summary.Balance), "balance %s", summary.Balance)
	assert.Equal(t, 5, summary.TransactionCount)
}

func TestSummarizePeriod(t *testing.T) {
	start := date(2024, time.March, 1)
	end := date(2024, time.March, 31)

	transactions := []domain.Transaction{
		// non-plan transaction inside the period
		{Type: domain.Income, Amount: decimal.NewFromInt(500), Date: date(2024, time.March, 10)},
		// non-plan transaction outside the period
		{Type: domain.Expense, Amount: decimal.NewFromInt(100), Date: date(2024, time.February, 10)},
		// plan: only the installment due in March counts, under the parent's type
		{
			Type:              domain.Expense,
			Amount:            decimal.NewFromInt(120),
			Date:              date(2024, time.January, 15),
			IsInstallmentPlan: true,
			Installments: []domain.Installment{
				{Amount: decimal.NewFromInt(40), DueDate: date(2024, time.February, 15)},
				{Amount: decimal.NewFromInt(40), DueDate: date(2024, time.March, 15)},
				{Amount: decimal.NewFromInt(40), DueDate: date(2024, time.April, 15)},
			},
		},
	}
	virtual := []domain.Transaction{
		{Type: domain.Expense, Amount: decimal.NewFromFloat(29.90), Date: date(2024, time.March, 1), IsVirtual: true},
		{Type: domain.Expense, Amount: decimal.NewFromFloat(29.90), Date: date(2024, time.April, 1), IsVirtual: true},
	}

	summary := domain.SummarizePeriod(transactions, virtual, start, end)

	assert.True(t, decimal.NewFromInt(500).Equal(summary.TotalIncome), "income %s", summary.TotalIncome)
	assert.True(t, decimal.NewFromFloat(69.90).Equal(summary.TotalExpenses), "expenses %s", summary.TotalExpenses)
	assert.True(t, decimal.NewFromFloat(430.10).Equal(summary.Balance), "balance %s", summary.Balance)
	assert.Equal(t, 3, summary.TransactionCount)
}

func TestSummarizePeriod_NegativeBalance(t *testing.T) {
	transactions := []domain.Transaction{
		{Type: domain.Expense, Amount: decimal.NewFromInt(800), Date: date(2024, time.May, 5)},
		{Type: domain.Income, Amount: decimal.NewFromInt(200), Date: date(2024, time.May, 6)},
	}

	summary := domain.SummarizePeriod(transactions, nil, date(2024, time.May, 1), date(2024, time.May, 31))

	assert.True(t, decimal.NewFromInt(-600).Equal(summary.Balance), "balance %s", summary.Balance)
}

func TestSummarizePeriod_PaidTypeExcluded(t *testing.T) {
	transactions := []domain.Transaction{
		{Type: domain.Paid, Amount: decimal.NewFromInt(120), Date: date(2024, time.May, 5)},
	}

	summary := domain.SummarizePeriod(transactions, nil, date(2024, time.May, 1), date(2024, time.May, 31))

	assert.True(t, summary.TotalExpenses.IsZero())
	assert.True(t, summary.TotalIncome.IsZero())
	assert.Equal(t, 0, summary.TransactionCount)
}
