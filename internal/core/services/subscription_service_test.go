package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/core/services"
	"github.com/finbook/finbook_backend/internal/dto"
)

// --- Mock SubscriptionRepository ---

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindSubscriptionByID(ctx context.Context, userID string, subscriptionID string) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, subscriptionID)
	var sub *domain.Subscription
	if args.Get(0) != nil {
		sub = args.Get(0).(*domain.Subscription)
	}
	return sub, args.Error(1)
}

func (m *MockSubscriptionRepository) FindSubscriptionByName(ctx context.Context, userID string, name string) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, name)
	var sub *domain.Subscription
	if args.Get(0) != nil {
		sub = args.Get(0).(*domain.Subscription)
	}
	return sub, args.Error(1)
}

func (m *MockSubscriptionRepository) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID)
	var subs []domain.Subscription
	if args.Get(0) != nil {
		subs = args.Get(0).([]domain.Subscription)
	}
	return subs, args.Error(1)
}

func (m *MockSubscriptionRepository) ListActiveSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID)
	var subs []domain.Subscription
	if args.Get(0) != nil {
		subs = args.Get(0).([]domain.Subscription)
	}
	return subs, args.Error(1)
}

func (m *MockSubscriptionRepository) ListDueSubscriptions(ctx context.Context, userID *string, asOf time.Time) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID, asOf)
	var subs []domain.Subscription
	if args.Get(0) != nil {
		subs = args.Get(0).([]domain.Subscription)
	}
	return subs, args.Error(1)
}

func (m *MockSubscriptionRepository) ListUpcomingSubscriptions(ctx context.Context, userID string, from time.Time, to time.Time) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID, from, to)
	var subs []domain.Subscription
	if args.Get(0) != nil {
		subs = args.Get(0).([]domain.Subscription)
	}
	return subs, args.Error(1)
}

func (m *MockSubscriptionRepository) SaveSubscription(ctx context.Context, subscription domain.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) UpdateSubscription(ctx context.Context, subscription domain.Subscription) error {
	args := m.Called(ctx, subscription)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) DeleteSubscription(ctx context.Context, userID string, subscriptionID string) error {
	args := m.Called(ctx, userID, subscriptionID)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) ProcessSubscription(ctx context.Context, subscription domain.Subscription, charge domain.Transaction, nextPaymentDate time.Time) error {
	args := m.Called(ctx, subscription, charge, nextPaymentDate)
	return args.Error(0)
}

// --- Test Suite ---

type SubscriptionServiceTestSuite struct {
	suite.Suite
	repo    *MockSubscriptionRepository
	service portssvc.SubscriptionSvcFacade
	ctx     context.Context
	userID  string
}

func (suite *SubscriptionServiceTestSuite) SetupTest() {
	suite.repo = new(MockSubscriptionRepository)
	suite.service = services.NewSubscriptionService(suite.repo, nil)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *SubscriptionServiceTestSuite) testSubscription(id, name string, nextPayment time.Time) domain.Subscription {
	return domain.Subscription{
		SubscriptionID:  id,
		UserID:          suite.userID,
		Name:            name,
		Amount:          decimal.NewFromFloat(9.99),
		Type:            domain.Expense,
		Frequency:       domain.Monthly,
		StartDate:       nextPayment.AddDate(0, -3, 0),
		IsActive:        true,
		NextPaymentDate: nextPayment,
	}
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_Success() {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	suite.repo.On("FindSubscriptionByName", suite.ctx, suite.userID, "Netflix").Return(nil, apperrors.ErrNotFound)
	suite.repo.On("SaveSubscription", suite.ctx, mock.AnythingOfType("domain.Subscription")).Return(nil)

	sub, err := suite.service.CreateSubscription(suite.ctx, suite.userID, dto.CreateSubscriptionRequest{
		Name:      "Netflix",
		Amount:    decimal.NewFromFloat(15.99),
		Type:      domain.Expense,
		Frequency: domain.Monthly,
		StartDate: start,
	})

	suite.NoError(err)
	suite.True(sub.IsActive)
	suite.True(sub.NextPaymentDate.Equal(start))
	suite.repo.AssertExpectations(suite.T())
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_DuplicateName() {
	existing := suite.testSubscription("sub-1", "Netflix", time.Now())
	suite.repo.On("FindSubscriptionByName", suite.ctx, suite.userID, "Netflix").Return(&existing, nil)

	_, err := suite.service.CreateSubscription(suite.ctx, suite.userID, dto.CreateSubscriptionRequest{
		Name:      "Netflix",
		Amount:    decimal.NewFromFloat(15.99),
		Type:      domain.Expense,
		Frequency: domain.Monthly,
		StartDate: time.Now(),
	})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.repo.AssertNotCalled(suite.T(), "SaveSubscription", mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestCreateSubscription_NonPositiveAmount() {
	_, err := suite.service.CreateSubscription(suite.ctx, suite.userID, dto.CreateSubscriptionRequest{
		Name:      "Netflix",
		Amount:    decimal.Zero,
		Type:      domain.Expense,
		Frequency: domain.Monthly,
		StartDate: time.Now(),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SubscriptionServiceTestSuite) TestToggleSubscription_Flips() {
	sub := suite.testSubscription("sub-1", "Netflix", time.Now())
	suite.repo.On("FindSubscriptionByID", suite.ctx, suite.userID, "sub-1").Return(&sub, nil)

	var updated domain.Subscription
	suite.repo.On("UpdateSubscription", suite.ctx, mock.AnythingOfType("domain.Subscription")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.Subscription)
		}).
		Return(nil)

	result, err := suite.service.ToggleSubscription(suite.ctx, suite.userID, "sub-1")

	suite.NoError(err)
	suite.False(result.IsActive)
	suite.False(updated.IsActive)
}

func (suite *SubscriptionServiceTestSuite) TestProcessDueSubscriptions_AdvancesOneStep() {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	sub := suite.testSubscription("sub-1", "Netflix", due)

	suite.repo.On("ListDueSubscriptions", suite.ctx, (*string)(nil), now).Return([]domain.Subscription{sub}, nil)

	var charge domain.Transaction
	var next time.Time
	suite.repo.On("ProcessSubscription", suite.ctx, sub, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			charge = args.Get(2).(domain.Transaction)
			next = args.Get(3).(time.Time)
		}).
		Return(nil)

	result, err := suite.service.ProcessDueSubscriptions(suite.ctx, nil, now)

	suite.NoError(err)
	suite.Equal(1, result.ProcessedCount)
	suite.Empty(result.Errors)
	// The charge is dated at the stored due date, and the pointer moves
	// exactly one frequency step even when several occurrences are overdue.
	suite.True(charge.Date.Equal(due))
	suite.True(charge.IsRecurring)
	suite.True(next.Equal(due.AddDate(0, 1, 0)))
}

func (suite *SubscriptionServiceTestSuite) TestProcessDueSubscriptions_ConflictSkipped() {
	now := time.Now()
	sub := suite.testSubscription("sub-1", "Netflix", now.AddDate(0, 0, -1))

	suite.repo.On("ListDueSubscriptions", suite.ctx, (*string)(nil), now).Return([]domain.Subscription{sub}, nil)
	suite.repo.On("ProcessSubscription", suite.ctx, sub, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("time.Time")).
		Return(apperrors.ErrConflict)

	result, err := suite.service.ProcessDueSubscriptions(suite.ctx, nil, now)

	suite.NoError(err)
	suite.Equal(0, result.ProcessedCount)
	suite.Empty(result.Errors)
}

func (suite *SubscriptionServiceTestSuite) TestProcessDueSubscriptions_ErrorIsolation() {
	now := time.Now()
	broken := suite.testSubscription("sub-1", "Broken", now.AddDate(0, 0, -2))
	healthy := suite.testSubscription("sub-2", "Healthy", now.AddDate(0, 0, -1))

	suite.repo.On("ListDueSubscriptions", suite.ctx, (*string)(nil), now).
		Return([]domain.Subscription{broken, healthy}, nil)
	suite.repo.On("ProcessSubscription", suite.ctx, broken, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("time.Time")).
		Return(errors.New("insert failed"))
	suite.repo.On("ProcessSubscription", suite.ctx, healthy, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("time.Time")).
		Return(nil)

	result, err := suite.service.ProcessDueSubscriptions(suite.ctx, nil, now)

	suite.NoError(err)
	suite.Equal(1, result.ProcessedCount)
	suite.Len(result.Errors, 1)
	suite.Equal("sub-1", result.Errors[0].SubscriptionID)
	suite.Equal("Broken", result.Errors[0].Name)
}

func (suite *SubscriptionServiceTestSuite) TestProcessDueSubscriptions_EndedSubscriptionSkipped() {
	// The store query excludes ended subscriptions; if a stale read still
	// hands one over, it is skipped without charging and without counting
	// as a failure.
	now := time.Now()
	ended := now.AddDate(0, 0, -10)
	sub := suite.testSubscription("sub-1", "Expired", now.AddDate(0, 0, -1))
	sub.EndDate = &ended

	suite.repo.On("ListDueSubscriptions", suite.ctx, (*string)(nil), now).Return([]domain.Subscription{sub}, nil)

	result, err := suite.service.ProcessDueSubscriptions(suite.ctx, nil, now)

	suite.NoError(err)
	suite.Equal(0, result.ProcessedCount)
	suite.Empty(result.Errors)
	suite.repo.AssertNotCalled(suite.T(), "ProcessSubscription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SubscriptionServiceTestSuite) TestListUpcoming_IncludesOverdue() {
	sub := suite.testSubscription("sub-1", "Netflix", time.Now().AddDate(0, 0, -3))
	suite.repo.On("ListUpcomingSubscriptions", suite.ctx, suite.userID, time.Time{}, mock.AnythingOfType("time.Time")).
		Return([]domain.Subscription{sub}, nil)

	subs, err := suite.service.ListUpcoming(suite.ctx, suite.userID, 30)

	suite.NoError(err)
	suite.Len(subs, 1)
}

func (suite *SubscriptionServiceTestSuite) TestUpdateSubscription_RenameChecksUniqueness() {
	sub := suite.testSubscription("sub-1", "Netflix", time.Now())
	other := suite.testSubscription("sub-2", "Spotify", time.Now())
	suite.repo.On("FindSubscriptionByID", suite.ctx, suite.userID, "sub-1").Return(&sub, nil)
	suite.repo.On("FindSubscriptionByName", suite.ctx, suite.userID, "Spotify").Return(&other, nil)

	name := "Spotify"
	_, err := suite.service.UpdateSubscription(suite.ctx, suite.userID, "sub-1", dto.UpdateSubscriptionRequest{
		Name: &name,
	})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.repo.AssertNotCalled(suite.T(), "UpdateSubscription", mock.Anything, mock.Anything)
}

func TestSubscriptionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}
