package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/core/services"
	"github.com/finbook/finbook_backend/internal/dto"
)

// --- Mock DebtRepository ---

type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) FindDebtByID(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID)
	var debt *domain.Debt
	if args.Get(0) != nil {
		debt = args.Get(0).(*domain.Debt)
	}
	return debt, args.Error(1)
}

func (m *MockDebtRepository) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	args := m.Called(ctx, userID)
	var debts []domain.Debt
	if args.Get(0) != nil {
		debts = args.Get(0).([]domain.Debt)
	}
	return debts, args.Error(1)
}

func (m *MockDebtRepository) ListDebtsByDebtor(ctx context.Context, userID string, debtorID string) ([]domain.Debt, error) {
	args := m.Called(ctx, userID, debtorID)
	var debts []domain.Debt
	if args.Get(0) != nil {
		debts = args.Get(0).([]domain.Debt)
	}
	return debts, args.Error(1)
}

func (m *MockDebtRepository) FindPaymentByID(ctx context.Context, userID string, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, userID, paymentID)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	return payment, args.Error(1)
}

func (m *MockDebtRepository) ListPaymentsByDebt(ctx context.Context, userID string, debtID string) ([]domain.Payment, error) {
	args := m.Called(ctx, userID, debtID)
	var payments []domain.Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]domain.Payment)
	}
	return payments, args.Error(1)
}

func (m *MockDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) UpdateDebt(ctx context.Context, debt domain.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) DeleteDebt(ctx context.Context, userID string, debtID string) error {
	args := m.Called(ctx, userID, debtID)
	return args.Error(0)
}

func (m *MockDebtRepository) DeletePayment(ctx context.Context, userID string, paymentID string) error {
	args := m.Called(ctx, userID, paymentID)
	return args.Error(0)
}

func (m *MockDebtRepository) RecordPayment(ctx context.Context, userID string, payment domain.Payment, income domain.Transaction) (bool, error) {
	args := m.Called(ctx, userID, payment, income)
	return args.Bool(0), args.Error(1)
}

func (m *MockDebtRepository) SettleDebt(ctx context.Context, userID string, debtID string, income domain.Transaction) error {
	args := m.Called(ctx, userID, debtID, income)
	return args.Error(0)
}

// --- Mock DebtorRepository ---

type MockDebtorRepository struct {
	mock.Mock
}

func (m *MockDebtorRepository) FindDebtorByID(ctx context.Context, userID string, debtorID string) (*domain.Debtor, error) {
	args := m.Called(ctx, userID, debtorID)
	var debtor *domain.Debtor
	if args.Get(0) != nil {
		debtor = args.Get(0).(*domain.Debtor)
	}
	return debtor, args.Error(1)
}

func (m *MockDebtorRepository) ListDebtors(ctx context.Context, userID string) ([]domain.Debtor, error) {
	args := m.Called(ctx, userID)
	var debtors []domain.Debtor
	if args.Get(0) != nil {
		debtors = args.Get(0).([]domain.Debtor)
	}
	return debtors, args.Error(1)
}

func (m *MockDebtorRepository) SaveDebtor(ctx context.Context, debtor domain.Debtor) error {
	args := m.Called(ctx, debtor)
	return args.Error(0)
}

func (m *MockDebtorRepository) UpdateDebtor(ctx context.Context, debtor domain.Debtor) error {
	args := m.Called(ctx, debtor)
	return args.Error(0)
}

func (m *MockDebtorRepository) DeleteDebtor(ctx context.Context, userID string, debtorID string) error {
	args := m.Called(ctx, userID, debtorID)
	return args.Error(0)
}

// --- Test Suite ---

type DebtServiceTestSuite struct {
	suite.Suite
	debtRepo   *MockDebtRepository
	debtorRepo *MockDebtorRepository
	service    portssvc.DebtSvcFacade
	ctx        context.Context
	userID     string
}

func (suite *DebtServiceTestSuite) SetupTest() {
	suite.debtRepo = new(MockDebtRepository)
	suite.debtorRepo = new(MockDebtorRepository)
	suite.service = services.NewDebtService(suite.debtRepo, suite.debtorRepo, nil)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *DebtServiceTestSuite) testDebtor() *domain.Debtor {
	return &domain.Debtor{
		DebtorID: "debtor-1",
		UserID:   suite.userID,
		Name:     "Alice",
	}
}

func (suite *DebtServiceTestSuite) testDebt(total string, status domain.DebtStatus, payments ...domain.Payment) *domain.Debt {
	return &domain.Debt{
		DebtID:      "debt-1",
		DebtorID:    "debtor-1",
		Description: "lunch money",
		TotalAmount: decimal.RequireFromString(total),
		Status:      status,
		Payments:    payments,
	}
}

func (suite *DebtServiceTestSuite) TestCreateDebt_Success() {
	suite.debtorRepo.On("FindDebtorByID", suite.ctx, suite.userID, "debtor-1").Return(suite.testDebtor(), nil)
	suite.debtRepo.On("SaveDebt", suite.ctx, mock.AnythingOfType("domain.Debt")).Return(nil)

	debt, err := suite.service.CreateDebt(suite.ctx, suite.userID, dto.CreateDebtRequest{
		DebtorID:    "debtor-1",
		Description: "lunch money",
		TotalAmount: decimal.NewFromInt(100),
	})

	suite.NoError(err)
	suite.Equal(domain.DebtPending, debt.Status)
	suite.True(debt.RemainingAmount.Equal(decimal.NewFromInt(100)))
	suite.debtRepo.AssertExpectations(suite.T())
}

func (suite *DebtServiceTestSuite) TestCreateDebt_ZeroTotalIsImmediatelyPaid() {
	suite.debtorRepo.On("FindDebtorByID", suite.ctx, suite.userID, "debtor-1").Return(suite.testDebtor(), nil)
	suite.debtRepo.On("SaveDebt", suite.ctx, mock.AnythingOfType("domain.Debt")).Return(nil)

	debt, err := suite.service.CreateDebt(suite.ctx, suite.userID, dto.CreateDebtRequest{
		DebtorID:    "debtor-1",
		Description: "nothing owed",
		TotalAmount: decimal.Zero,
	})

	suite.NoError(err)
	suite.Equal(domain.DebtPaid, debt.Status)
	suite.True(debt.RemainingAmount.IsZero())
	suite.debtRepo.AssertExpectations(suite.T())
}

func (suite *DebtServiceTestSuite) TestCreateDebt_NegativeAmount() {
	_, err := suite.service.CreateDebt(suite.ctx, suite.userID, dto.CreateDebtRequest{
		DebtorID:    "debtor-1",
		TotalAmount: decimal.NewFromInt(-10),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.debtRepo.AssertNotCalled(suite.T(), "SaveDebt", mock.Anything, mock.Anything)
}

func (suite *DebtServiceTestSuite) TestCreateDebt_UnknownDebtor() {
	suite.debtorRepo.On("FindDebtorByID", suite.ctx, suite.userID, "nope").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.CreateDebt(suite.ctx, suite.userID, dto.CreateDebtRequest{
		DebtorID:    "nope",
		TotalAmount: decimal.NewFromInt(50),
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DebtServiceTestSuite) TestGetDebtByID_Reconciles() {
	stored := suite.testDebt("100", domain.DebtPending,
		domain.Payment{PaymentID: "p1", DebtID: "debt-1", Amount: decimal.NewFromInt(60)},
	)
	suite.debtRepo.On("FindDebtByID", suite.ctx, suite.userID, "debt-1").Return(stored, nil)

	debt, err := suite.service.GetDebtByID(suite.ctx, suite.userID, "debt-1")

	suite.NoError(err)
	suite.True(debt.PaidAmount.Equal(decimal.NewFromInt(60)))
	suite.True(debt.RemainingAmount.Equal(decimal.NewFromInt(40)))
	suite.Equal(domain.DebtPending, debt.Status)
}

func (suite *DebtServiceTestSuite) TestListDebts_FiltersOnDerivedStatus() {
	// Stored PENDING but fully paid: the derived status is PAID, so a
	// PAID filter must include it.
	covered := *suite.testDebt("100", domain.DebtPending,
		domain.Payment{PaymentID: "p1", DebtID: "debt-1", Amount: decimal.NewFromInt(100)},
	)
	open := domain.Debt{
		DebtID:      "debt-2",
		DebtorID:    "debtor-1",
		TotalAmount: decimal.NewFromInt(50),
		Status:      domain.DebtPending,
	}
	suite.debtRepo.On("ListDebts", suite.ctx, suite.userID).Return([]domain.Debt{covered, open}, nil)

	paid := domain.DebtPaid
	debts, err := suite.service.ListDebts(suite.ctx, suite.userID, &paid)

	suite.NoError(err)
	suite.Len(debts, 1)
	suite.Equal("debt-1", debts[0].DebtID)
	suite.Equal(domain.DebtPaid, debts[0].Status)
}

func (suite *DebtServiceTestSuite) TestCreatePayment_BuildsUnlinkedIncome() {
	debt := suite.testDebt("100", domain.DebtPending)
	suite.debtRepo.On("FindDebtByID", suite.ctx, suite.userID, "debt-1").Return(debt, nil)
	suite.debtorRepo.On("FindDebtorByID", suite.ctx, suite.userID, "debtor-1").Return(suite.testDebtor(), nil)

	var recordedIncome domain.Transaction
	suite.debtRepo.On("RecordPayment", suite.ctx, suite.userID,
		mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			recordedIncome = args.Get(3).(domain.Transaction)
		}).
		Return(true, nil)

	_, err := suite.service.CreatePayment(suite.ctx, suite.userID, "debt-1", dto.CreatePaymentRequest{
		Amount: decimal.NewFromInt(100),
	})

	suite.NoError(err)
	suite.Equal(domain.Income, recordedIncome.Type)
	suite.True(recordedIncome.Amount.Equal(decimal.NewFromInt(100)))
	suite.Contains(recordedIncome.Description, "Alice")
	suite.Nil(recordedIncome.CategoryID)
	suite.Nil(recordedIncome.AccountID)
}

func (suite *DebtServiceTestSuite) TestCreatePayment_NonPositiveAmount() {
	_, err := suite.service.CreatePayment(suite.ctx, suite.userID, "debt-1", dto.CreatePaymentRequest{
		Amount: decimal.NewFromInt(-5),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.debtRepo.AssertNotCalled(suite.T(), "RecordPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DebtServiceTestSuite) TestCreatePayment_UsesRequestedPaymentDate() {
	debt := suite.testDebt("100", domain.DebtPending)
	suite.debtRepo.On("FindDebtByID", suite.ctx, suite.userID, "debt-1").Return(debt, nil)
	suite.debtorRepo.On("FindDebtorByID", suite.ctx, suite.userID, "debtor-1").Return(suite.testDebtor(), nil)

	wanted := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var recordedPayment domain.Payment
	suite.debtRepo.On("RecordPayment", suite.ctx, suite.userID,
		mock.AnythingOfType("domain.Payment"), mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			recordedPayment = args.Get(2).(domain.Payment)
		}).
		Return(false, nil)

	_, err := suite.service.CreatePayment(suite.ctx, suite.userID, "debt-1", dto.CreatePaymentRequest{
		Amount:      decimal.NewFromInt(10),
		PaymentDate: &wanted,
	})

	suite.NoError(err)
	suite.True(recordedPayment.PaymentDate.Equal(wanted))
}

func (suite *DebtServiceTestSuite) TestMarkDebtPaid_Success() {
	debt := suite.testDebt("100", domain.DebtPending)
	suite.debtRepo.On("FindDebtByID", suite.ctx, suite.userID, "debt-1").Return(debt, nil)
	suite.debtorRepo.On("FindDebtorByID", suite.ctx, suite.userID, "debtor-1").Return(suite.testDebtor(), nil)
	suite.debtRepo.On("SettleDebt", suite.ctx, suite.userID, "debt-1", mock.AnythingOfType("domain.Transaction")).Return(nil)

	_, err := suite.service.MarkDebtPaid(suite.ctx, suite.userID, "debt-1")

	suite.NoError(err)
	suite.debtRepo.AssertExpectations(suite.T())
}

func (suite *DebtServiceTestSuite) TestMarkDebtPaid_AlreadySettled() {
	debt := suite.testDebt("100", domain.DebtPaid)
	suite.debtRepo.On("FindDebtByID", suite.ctx, suite.userID, "debt-1").Return(debt, nil)

	_, err := suite.service.MarkDebtPaid(suite.ctx, suite.userID, "debt-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.debtRepo.AssertNotCalled(suite.T(), "SettleDebt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DebtServiceTestSuite) TestMarkDebtPaid_SettledByPayments() {
	// No explicit PAID mark, but payments already cover the total: the
	// derived status blocks a second settlement.
	debt := suite.testDebt("100", domain.DebtPending,
		domain.Payment{PaymentID: "p1", DebtID: "debt-1", Amount: decimal.NewFromInt(100)},
	)
	suite.debtRepo.On("FindDebtByID", suite.ctx, suite.userID, "debt-1").Return(debt, nil)

	_, err := suite.service.MarkDebtPaid(suite.ctx, suite.userID, "debt-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *DebtServiceTestSuite) TestUpdateDebt_PaidStatusIsSticky() {
	debt := suite.testDebt("100", domain.DebtPaid)
	suite.debtRepo.On("FindDebtByID", suite.ctx, suite.userID, "debt-1").Return(debt, nil)

	var updated domain.Debt
	suite.debtRepo.On("UpdateDebt", suite.ctx, mock.AnythingOfType("domain.Debt")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(domain.Debt)
		}).
		Return(nil)

	pending := domain.DebtPending
	result, err := suite.service.UpdateDebt(suite.ctx, suite.userID, "debt-1", dto.UpdateDebtRequest{
		Status: &pending,
	})

	suite.NoError(err)
	suite.Equal(domain.DebtPaid, updated.Status)
	suite.Equal(domain.DebtPaid, result.Status)
}

func (suite *DebtServiceTestSuite) TestDeletePayment_Propagates() {
	suite.debtRepo.On("DeletePayment", suite.ctx, suite.userID, "p1").Return(apperrors.ErrNotFound)

	err := suite.service.DeletePayment(suite.ctx, suite.userID, "p1")

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func TestDebtServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DebtServiceTestSuite))
}
