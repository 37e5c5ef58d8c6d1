package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionFrequency is the recurrence interval of a subscription.
type SubscriptionFrequency string

const (
	Daily   SubscriptionFrequency = "DAILY"
	Weekly  SubscriptionFrequency = "WEEKLY"
	Monthly SubscriptionFrequency = "MONTHLY"
	Yearly  SubscriptionFrequency = "YEARLY"
)

// ErrInvalidFrequency is returned for an unrecognized subscription frequency.
var ErrInvalidFrequency = errors.New("invalid subscription frequency")

// Subscription is a recurring transaction template with a rolling
// next-due-date pointer. Processing materializes due occurrences into real
// transactions and advances NextPaymentDate monotonically.
type Subscription struct {
	SubscriptionID  string                `json:"subscriptionID"`
	UserID          string                `json:"userID"`
	Name            string                `json:"name"`
	Description     string                `json:"description,omitempty"`
	Amount          decimal.Decimal       `json:"amount"`
	Type            TransactionType       `json:"type"`
	Frequency       SubscriptionFrequency `json:"frequency"`
	StartDate       time.Time             `json:"startDate"`
	EndDate         *time.Time            `json:"endDate,omitempty"`
	IsActive        bool                  `json:"isActive"`
	NextPaymentDate time.Time             `json:"nextPaymentDate"`
	LastProcessedAt *time.Time            `json:"lastProcessedAt,omitempty"`
	CategoryID      *string               `json:"categoryID,omitempty"`
	AccountID       *string               `json:"accountID,omitempty"`
	AuditFields
}

// ProcessError records why one subscription could not be materialized
// during a processing batch.
type ProcessError struct {
	SubscriptionID string `json:"subscriptionID"`
	Name           string `json:"name"`
	Error          string `json:"error"`
}

// ProcessResult summarizes one run of the due-subscription processor.
// A failing subscription never aborts the batch; it lands in Errors.
type ProcessResult struct {
	ProcessedCount int            `json:"processedCount"`
	Errors         []ProcessError `json:"errors"`
}

// NextPaymentDate advances a date by one frequency unit.
func NextPaymentDate(base time.Time, frequency SubscriptionFrequency) (time.Time, error) {
	switch frequency {
	case Daily:
		return base.AddDate(0, 0, 1), nil
	case Weekly:
		return base.AddDate(0, 0, 7), nil
	case Monthly:
		return base.AddDate(0, 1, 0), nil
	case Yearly:
		return base.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidFrequency, frequency)
	}
}

// IsOverdue reports whether an active subscription's next payment is in the past.
func (s Subscription) IsOverdue(now time.Time) bool {
	return s.IsActive && s.NextPaymentDate.Before(now)
}

// MaterializedTransaction builds the real transaction recorded when the
// subscription's current due date is processed.
func (s Subscription) MaterializedTransaction(transactionID string, now time.Time) Transaction {
	return Transaction{
		TransactionID:  transactionID,
		UserID:         s.UserID,
		Description:    fmt.Sprintf("%s - recurring charge", s.Name),
		Amount:         s.Amount,
		Date:           s.NextPaymentDate,
		Type:           s.Type,
		CategoryID:     s.CategoryID,
		AccountID:      s.AccountID,
		IsRecurring:    true,
		SubscriptionID: &s.SubscriptionID,
		AuditFields: AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// AfterProcessing returns the subscription's state once its current due
// occurrence has been materialized: LastProcessedAt records the occurrence
// just charged (the old NextPaymentDate, not the processing instant) and the
// pointer advances to next.
func (s Subscription) AfterProcessing(next time.Time, now time.Time) Subscription {
	processed := s.NextPaymentDate
	s.LastProcessedAt = &processed
	s.NextPaymentDate = next
	s.UpdatedAt = now
	return s
}

// ProjectOccurrences computes the subscription's virtual occurrences inside
// [start, end]. Starting from the stored NextPaymentDate it advances one
// frequency step at a time, skipping occurrences before start and stopping
// once past end or past the subscription's own end date. The returned
// transactions carry a synthetic id and IsVirtual=true; they are never
// persisted and never payable.
func (s Subscription) ProjectOccurrences(start, end time.Time) ([]Transaction, error) {
	if !s.IsActive || s.StartDate.After(end) {
		return nil, nil
	}

	var occurrences []Transaction
	occ := s.NextPaymentDate
	for !occ.After(end) {
		if s.EndDate != nil && occ.After(*s.EndDate) {
			break
		}
		if !occ.Before(start) {
			virtual := s.MaterializedTransaction(fmt.Sprintf("virtual-%s-%d", s.SubscriptionID, occ.Unix()), occ)
			virtual.Date = occ
			virtual.IsVirtual = true
			occurrences = append(occurrences, virtual)
		}
		next, err := NextPaymentDate(occ, s.Frequency)
		if err != nil {
			return nil, err
		}
		occ = next
	}
	return occurrences, nil
}
