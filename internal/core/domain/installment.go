package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInstallmentCount is returned for plans outside the supported 2..48 range.
	ErrInvalidInstallmentCount = errors.New("installment count must be between 2 and 48")
	// ErrInvalidInstallmentFrequency is returned for frequencies other than MONTHLY or WEEKLY.
	ErrInvalidInstallmentFrequency = errors.New("installment frequency must be MONTHLY or WEEKLY")
)

const (
	minInstallmentCount = 2
	maxInstallmentCount = 48
)

// SplitInstallmentAmount divides a plan total evenly across count installments.
// The remainder is not redistributed: the sum of the slices may differ from the
// total by the division precision, and the last installment is not adjusted.
func SplitInstallmentAmount(amount decimal.Decimal, count int) decimal.Decimal {
	return amount.Div(decimal.NewFromInt(int64(count)))
}

// GenerateInstallments produces the installment schedule for a plan: count
// slices of amount/count each, all PENDING, with due dates starting at
// firstDate and advancing one frequency unit per installment. Each due date is
// computed from the previous installment's date, not re-derived from the
// anchor, so month-length differences do not compound.
func GenerateInstallments(amount decimal.Decimal, count int, frequency InstallmentFrequency, firstDate time.Time) ([]Installment, error) {
	if count < minInstallmentCount || count > maxInstallmentCount {
		return nil, ErrInvalidInstallmentCount
	}
	if frequency != InstallmentMonthly && frequency != InstallmentWeekly {
		return nil, ErrInvalidInstallmentFrequency
	}

	per := SplitInstallmentAmount(amount, count)
	installments := make([]Installment, count)
	due := firstDate
	for i := 0; i < count; i++ {
		if i > 0 {
			due = NextInstallmentDate(due, frequency)
		}
		installments[i] = Installment{
			InstallmentNumber: i + 1,
			Amount:            per,
			DueDate:           due,
			Status:            InstallmentPending,
		}
	}
	return installments, nil
}

// NextInstallmentDate advances a due date by one frequency unit.
func NextInstallmentDate(base time.Time, frequency InstallmentFrequency) time.Time {
	if frequency == InstallmentWeekly {
		return base.AddDate(0, 0, 7)
	}
	return base.AddDate(0, 1, 0)
}

// PartialPaymentResult reports which installments a partial payment covered
// and the amount that could not be applied.
type PartialPaymentResult struct {
	PaidInstallmentIDs []string
	PaidAmount         decimal.Decimal
	RemainingAmount    decimal.Decimal
}

// ApplyPartialPayment greedily settles the earliest PENDING installments that
// the payment fully covers, in ascending installment number order. Installments
// are atomic units: the first installment the remaining amount cannot fully
// cover stops the walk and the leftover is returned to the caller.
func ApplyPartialPayment(pending []Installment, amount decimal.Decimal) PartialPaymentResult {
	result := PartialPaymentResult{
		PaidAmount:      decimal.Zero,
		RemainingAmount: amount,
	}
	for _, inst := range pending {
		if inst.Status != InstallmentPending {
			continue
		}
		if result.RemainingAmount.LessThan(inst.Amount) {
			break
		}
		result.PaidInstallmentIDs = append(result.PaidInstallmentIDs, inst.InstallmentID)
		result.PaidAmount = result.PaidAmount.Add(inst.Amount)
		result.RemainingAmount = result.RemainingAmount.Sub(inst.Amount)
	}
	return result
}
