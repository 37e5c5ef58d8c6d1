package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/core/domain"
)

// CreateSubscriptionRequest defines the data needed to create a
// subscription. NextPaymentDate defaults to StartDate when omitted.
type CreateSubscriptionRequest struct {
	Name            string                       `json:"name" binding:"required,max=100"`
	Description     string                       `json:"description" binding:"max=255"`
	Amount          decimal.Decimal              `json:"amount" binding:"required"`
	Type            domain.TransactionType       `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Frequency       domain.SubscriptionFrequency `json:"frequency" binding:"required,frequency"`
	StartDate       time.Time                    `json:"startDate" binding:"required"`
	EndDate         *time.Time                   `json:"endDate"`
	NextPaymentDate *time.Time                   `json:"nextPaymentDate"`
	CategoryID      *string                      `json:"categoryID"`
	AccountID       *string                      `json:"accountID"`
}

// UpdateSubscriptionRequest defines the data allowed for updating a
// subscription. Pointers distinguish omitted fields from zero-value
// fields.
type UpdateSubscriptionRequest struct {
	Name            *string                       `json:"name"`
	Description     *string                       `json:"description"`
	Amount          *decimal.Decimal              `json:"amount"`
	Type            *domain.TransactionType       `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Frequency       *domain.SubscriptionFrequency `json:"frequency" binding:"omitempty,frequency"`
	EndDate         *time.Time                    `json:"endDate"`
	NextPaymentDate *time.Time                    `json:"nextPaymentDate"`
	IsActive        *bool                         `json:"isActive"`
	CategoryID      *string                       `json:"categoryID"`
	AccountID       *string                       `json:"accountID"`
}

// ListUpcomingParams defines query parameters for the upcoming
// subscriptions listing.
type ListUpcomingParams struct {
	Days int `form:"days,default=30" binding:"min=1,max=365"`
}

// SubscriptionResponse defines the data returned for a subscription.
type SubscriptionResponse struct {
	SubscriptionID  string                       `json:"subscriptionID"`
	Name            string                       `json:"name"`
	Description     string                       `json:"description,omitempty"`
	Amount          decimal.Decimal              `json:"amount"`
	Type            domain.TransactionType       `json:"type"`
	Frequency       domain.SubscriptionFrequency `json:"frequency"`
	StartDate       time.Time                    `json:"startDate"`
	EndDate         *time.Time                   `json:"endDate,omitempty"`
	IsActive        bool                         `json:"isActive"`
	NextPaymentDate time.Time                    `json:"nextPaymentDate"`
	LastProcessedAt *time.Time                   `json:"lastProcessedAt,omitempty"`
	IsOverdue       bool                         `json:"isOverdue"`
	CategoryID      *string                      `json:"categoryID,omitempty"`
	AccountID       *string                      `json:"accountID,omitempty"`
	CreatedAt       time.Time                    `json:"createdAt"`
	UpdatedAt       time.Time                    `json:"updatedAt"`
}

// ProcessSubscriptionsResponse summarizes one processing run.
type ProcessSubscriptionsResponse struct {
	ProcessedCount int                   `json:"processedCount"`
	Errors         []domain.ProcessError `json:"errors"`
}

// ToSubscriptionResponse converts a domain.Subscription to SubscriptionResponse DTO
func ToSubscriptionResponse(sub *domain.Subscription, now time.Time) SubscriptionResponse {
	return SubscriptionResponse{
		SubscriptionID:  sub.SubscriptionID,
		Name:            sub.Name,
		Description:     sub.Description,
		Amount:          sub.Amount,
		Type:            sub.Type,
		Frequency:       sub.Frequency,
		StartDate:       sub.StartDate,
		EndDate:         sub.EndDate,
		IsActive:        sub.IsActive,
		NextPaymentDate: sub.NextPaymentDate,
		LastProcessedAt: sub.LastProcessedAt,
		IsOverdue:       sub.IsOverdue(now),
		CategoryID:      sub.CategoryID,
		AccountID:       sub.AccountID,
		CreatedAt:       sub.CreatedAt,
		UpdatedAt:       sub.UpdatedAt,
	}
}

// ToListSubscriptionResponse converts a slice of domain.Subscription to SubscriptionResponse DTOs
func ToListSubscriptionResponse(subs []domain.Subscription, now time.Time) []SubscriptionResponse {
	res := make([]SubscriptionResponse, len(subs))
	for i, sub := range subs {
		res[i] = ToSubscriptionResponse(&sub, now)
	}
	return res
}

// ToProcessSubscriptionsResponse converts a domain.ProcessResult to its DTO
func ToProcessSubscriptionsResponse(r *domain.ProcessResult) ProcessSubscriptionsResponse {
	return ProcessSubscriptionsResponse{
		ProcessedCount: r.ProcessedCount,
		Errors:         r.Errors,
	}
}
