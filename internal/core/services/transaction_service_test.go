package services_test

import (
	"context"
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

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) FindInstallmentByID(ctx context.Context, userID string, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, userID, installmentID)
	var inst *domain.Installment
	if args.Get(0) != nil {
		inst = args.Get(0).(*domain.Installment)
	}
	return inst, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, filter)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, transaction domain.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, transaction domain.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	args := m.Called(ctx, userID, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkTransactionPaid(ctx context.Context, userID string, transactionID string) error {
	args := m.Called(ctx, userID, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkInstallmentsPaid(ctx context.Context, userID string, installmentIDs []string, paidAt time.Time) error {
	args := m.Called(ctx, userID, installmentIDs, paidAt)
	return args.Error(0)
}

// --- Mock CategoryRepository ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, userID string, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, userID, categoryID)
	var category *domain.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*domain.Category)
	}
	return category, args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByName(ctx context.Context, userID string, name string) (*domain.Category, error) {
	args := m.Called(ctx, userID, name)
	var category *domain.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*domain.Category)
	}
	return category, args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	var categories []domain.Category
	if args.Get(0) != nil {
		categories = args.Get(0).([]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, userID string, categoryID string) error {
	args := m.Called(ctx, userID, categoryID)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountRepository) FindAccountByName(ctx context.Context, userID string, name string) (*domain.Account, error) {
	args := m.Called(ctx, userID, name)
	var account *domain.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	var accounts []domain.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.Account)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, userID string, accountID string) error {
	args := m.Called(ctx, userID, accountID)
	return args.Error(0)
}

// --- Mock DebtService ---

type MockDebtService struct {
	mock.Mock
}

func (m *MockDebtService) GetDebtByID(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID)
	var debt *domain.Debt
	if args.Get(0) != nil {
		debt = args.Get(0).(*domain.Debt)
	}
	return debt, args.Error(1)
}

func (m *MockDebtService) ListDebts(ctx context.Context, userID string, status *domain.DebtStatus) ([]domain.Debt, error) {
	args := m.Called(ctx, userID, status)
	var debts []domain.Debt
	if args.Get(0) != nil {
		debts = args.Get(0).([]domain.Debt)
	}
	return debts, args.Error(1)
}

func (m *MockDebtService) ListDebtsByDebtor(ctx context.Context, userID string, debtorID string) ([]domain.Debt, error) {
	args := m.Called(ctx, userID, debtorID)
	var debts []domain.Debt
	if args.Get(0) != nil {
		debts = args.Get(0).([]domain.Debt)
	}
	return debts, args.Error(1)
}

func (m *MockDebtService) ListPayments(ctx context.Context, userID string, debtID string) ([]domain.Payment, error) {
	args := m.Called(ctx, userID, debtID)
	var payments []domain.Payment
	if args.Get(0) != nil {
		payments = args.Get(0).([]domain.Payment)
	}
	return payments, args.Error(1)
}

func (m *MockDebtService) CreateDebt(ctx context.Context, userID string, req dto.CreateDebtRequest) (*domain.Debt, error) {
	args := m.Called(ctx, userID, req)
	var debt *domain.Debt
	if args.Get(0) != nil {
		debt = args.Get(0).(*domain.Debt)
	}
	return debt, args.Error(1)
}

func (m *MockDebtService) UpdateDebt(ctx context.Context, userID string, debtID string, req dto.UpdateDebtRequest) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID, req)
	var debt *domain.Debt
	if args.Get(0) != nil {
		debt = args.Get(0).(*domain.Debt)
	}
	return debt, args.Error(1)
}

func (m *MockDebtService) DeleteDebt(ctx context.Context, userID string, debtID string) error {
	args := m.Called(ctx, userID, debtID)
	return args.Error(0)
}

func (m *MockDebtService) CreatePayment(ctx context.Context, userID string, debtID string, req dto.CreatePaymentRequest) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID, req)
	var debt *domain.Debt
	if args.Get(0) != nil {
		debt = args.Get(0).(*domain.Debt)
	}
	return debt, args.Error(1)
}

func (m *MockDebtService) MarkDebtPaid(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID)
	var debt *domain.Debt
	if args.Get(0) != nil {
		debt = args.Get(0).(*domain.Debt)
	}
	return debt, args.Error(1)
}

func (m *MockDebtService) DeletePayment(ctx context.Context, userID string, paymentID string) error {
	args := m.Called(ctx, userID, paymentID)
	return args.Error(0)
}

// --- Test Suite ---

type TransactionServiceTestSuite struct {
	suite.Suite
	transactionRepo  *MockTransactionRepository
	subscriptionRepo *MockSubscriptionRepository
	categoryRepo     *MockCategoryRepository
	accountRepo      *MockAccountRepository
	debtService      *MockDebtService
	service          portssvc.TransactionSvcFacade
	ctx              context.Context
	userID           string
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.transactionRepo = new(MockTransactionRepository)
	suite.subscriptionRepo = new(MockSubscriptionRepository)
	suite.categoryRepo = new(MockCategoryRepository)
	suite.accountRepo = new(MockAccountRepository)
	suite.debtService = new(MockDebtService)
	suite.service = services.NewTransactionService(
		suite.transactionRepo,
		suite.subscriptionRepo,
		suite.categoryRepo,
		suite.accountRepo,
		suite.debtService,
	)
	suite.ctx = context.Background()
	suite.userID = uuid.NewString()
}

func (suite *TransactionServiceTestSuite) planTransaction(id string, installmentStatus ...domain.InstallmentStatus) *domain.Transaction {
	installments := make([]domain.Installment, len(installmentStatus))
	for i, status := range installmentStatus {
		installments[i] = domain.Installment{
			InstallmentID:     uuid.NewString(),
			TransactionID:     id,
			InstallmentNumber: i + 1,
			Amount:            decimal.NewFromInt(25),
			DueDate:           time.Date(2024, time.Month(1+i), 10, 0, 0, 0, 0, time.UTC),
			Status:            status,
		}
	}
	return &domain.Transaction{
		TransactionID:     id,
		UserID:            suite.userID,
		Description:       "new couch",
		Amount:            decimal.NewFromInt(100),
		Date:              time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Type:              domain.Expense,
		IsInstallmentPlan: true,
		InstallmentCount:  len(installments),
		Installments:      installments,
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Simple() {
	var saved domain.Transaction
	suite.transactionRepo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Transaction)
		}).
		Return(nil)

	txn, err := suite.service.CreateTransaction(suite.ctx, suite.userID, dto.CreateTransactionRequest{
		Description: "groceries",
		Amount:      decimal.NewFromInt(42),
		Date:        time.Now(),
		Type:        domain.Expense,
	})

	suite.NoError(err)
	suite.Equal(domain.Expense, saved.Type)
	suite.False(saved.IsInstallmentPlan)
	suite.False(txn.IsVirtual)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_NonPositiveAmount() {
	_, err := suite.service.CreateTransaction(suite.ctx, suite.userID, dto.CreateTransactionRequest{
		Description: "groceries",
		Amount:      decimal.Zero,
		Date:        time.Now(),
		Type:        domain.Expense,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.transactionRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnknownCategory() {
	categoryID := "missing"
	suite.categoryRepo.On("FindCategoryByID", suite.ctx, suite.userID, categoryID).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.CreateTransaction(suite.ctx, suite.userID, dto.CreateTransactionRequest{
		Description: "groceries",
		Amount:      decimal.NewFromInt(42),
		Date:        time.Now(),
		Type:        domain.Expense,
		CategoryID:  &categoryID,
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InstallmentPlan() {
	var saved domain.Transaction
	suite.transactionRepo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Transaction)
		}).
		Return(nil)

	count := 4
	frequency := domain.InstallmentMonthly
	first := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	_, err := suite.service.CreateTransaction(suite.ctx, suite.userID, dto.CreateTransactionRequest{
		Description:          "new couch",
		Amount:               decimal.NewFromInt(100),
		Date:                 time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Type:                 domain.Expense,
		IsInstallmentPlan:    true,
		InstallmentCount:     &count,
		InstallmentFrequency: &frequency,
		FirstInstallmentDate: &first,
	})

	suite.NoError(err)
	suite.True(saved.IsInstallmentPlan)
	suite.Equal(4, saved.InstallmentCount)
	suite.Len(saved.Installments, 4)
	suite.True(saved.InstallmentAmount.Equal(decimal.NewFromInt(25)))
	suite.True(saved.Installments[0].DueDate.Equal(first))
	suite.True(saved.Installments[3].DueDate.Equal(first.AddDate(0, 3, 0)))
	for _, inst := range saved.Installments {
		suite.Equal(domain.InstallmentPending, inst.Status)
		suite.Equal(saved.TransactionID, inst.TransactionID)
		suite.NotEmpty(inst.InstallmentID)
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_PlanWithoutCount() {
	_, err := suite.service.CreateTransaction(suite.ctx, suite.userID, dto.CreateTransactionRequest{
		Description:       "new couch",
		Amount:            decimal.NewFromInt(100),
		Date:              time.Now(),
		Type:              domain.Expense,
		IsInstallmentPlan: true,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RecurringSpawnsSubscription() {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	var spawned domain.Subscription
	suite.subscriptionRepo.On("SaveSubscription", suite.ctx, mock.AnythingOfType("domain.Subscription")).
		Run(func(args mock.Arguments) {
			spawned = args.Get(1).(domain.Subscription)
		}).
		Return(nil)

	var saved domain.Transaction
	suite.transactionRepo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("domain.Transaction")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Transaction)
		}).
		Return(nil)

	frequency := domain.Monthly
	_, err := suite.service.CreateTransaction(suite.ctx, suite.userID, dto.CreateTransactionRequest{
		Description: "Gym membership",
		Amount:      decimal.NewFromInt(30),
		Date:        date,
		Type:        domain.Expense,
		IsRecurring: true,
		Frequency:   &frequency,
	})

	suite.NoError(err)
	suite.Equal("Gym membership", spawned.Name)
	suite.True(spawned.IsActive)
	// The transaction covers the first occurrence; the subscription's next
	// payment starts one frequency step later.
	suite.True(spawned.NextPaymentDate.Equal(date.AddDate(0, 1, 0)))
	suite.True(saved.IsRecurring)
	suite.NotNil(saved.SubscriptionID)
	suite.Equal(spawned.SubscriptionID, *saved.SubscriptionID)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RecurringWithoutFrequency() {
	_, err := suite.service.CreateTransaction(suite.ctx, suite.userID, dto.CreateTransactionRequest{
		Description: "Gym membership",
		Amount:      decimal.NewFromInt(30),
		Date:        time.Now(),
		Type:        domain.Expense,
		IsRecurring: true,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.subscriptionRepo.AssertNotCalled(suite.T(), "SaveSubscription", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_DebtPayment() {
	debtID := "debt-1"
	settled := domain.Debt{DebtID: debtID, Status: domain.DebtPaid}

	var paymentReq dto.CreatePaymentRequest
	suite.debtService.On("CreatePayment", suite.ctx, suite.userID, debtID, mock.AnythingOfType("dto.CreatePaymentRequest")).
		Run(func(args mock.Arguments) {
			paymentReq = args.Get(3).(dto.CreatePaymentRequest)
		}).
		Return(&settled, nil)

	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	txn, err := suite.service.CreateTransaction(suite.ctx, suite.userID, dto.CreateTransactionRequest{
		Description: "Alice paying me back",
		Amount:      decimal.NewFromInt(40),
		Date:        date,
		Type:        domain.Income,
		DebtID:      &debtID,
	})

	suite.NoError(err)
	// The movement is recorded as a debt payment; no plain transaction row
	// is stored, only an echo is returned.
	suite.True(txn.IsVirtual)
	suite.transactionRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
	suite.True(paymentReq.Amount.Equal(decimal.NewFromInt(40)))
	suite.Equal("Payment via transaction: Alice paying me back", paymentReq.Notes)
	suite.NotNil(paymentReq.PaymentDate)
	suite.True(paymentReq.PaymentDate.Equal(date))
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_DebtPaymentMustBeIncome() {
	debtID := "debt-1"
	_, err := suite.service.CreateTransaction(suite.ctx, suite.userID, dto.CreateTransactionRequest{
		Description: "wrong direction",
		Amount:      decimal.NewFromInt(40),
		Date:        time.Now(),
		Type:        domain.Expense,
		DebtID:      &debtID,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.debtService.AssertNotCalled(suite.T(), "CreatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestRegisterPartialPayment_CoversWholeInstallmentsOnly() {
	txn := suite.planTransaction("txn-1",
		domain.InstallmentPending, domain.InstallmentPending,
		domain.InstallmentPending, domain.InstallmentPending)
	suite.transactionRepo.On("FindTransactionByID", suite.ctx, suite.userID, "txn-1").Return(txn, nil)

	var paidIDs []string
	suite.transactionRepo.On("MarkInstallmentsPaid", suite.ctx, suite.userID, mock.AnythingOfType("[]string"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			paidIDs = args.Get(2).([]string)
		}).
		Return(nil)

	// 60 against 4 pending installments of 25: two covered, 10 left over.
	result, err := suite.service.RegisterPartialPayment(suite.ctx, suite.userID, "txn-1", decimal.NewFromInt(60))

	suite.NoError(err)
	suite.Len(result.PaidInstallmentIDs, 2)
	suite.True(result.PaidAmount.Equal(decimal.NewFromInt(50)))
	suite.True(result.RemainingAmount.Equal(decimal.NewFromInt(10)))
	suite.Equal(txn.Installments[0].InstallmentID, paidIDs[0])
	suite.Equal(txn.Installments[1].InstallmentID, paidIDs[1])
	suite.transactionRepo.AssertNotCalled(suite.T(), "MarkTransactionPaid", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestRegisterPartialPayment_TooSmallForAnyInstallment() {
	txn := suite.planTransaction("txn-1", domain.InstallmentPending, domain.InstallmentPending)
	suite.transactionRepo.On("FindTransactionByID", suite.ctx, suite.userID, "txn-1").Return(txn, nil)

	result, err := suite.service.RegisterPartialPayment(suite.ctx, suite.userID, "txn-1", decimal.NewFromInt(10))

	suite.NoError(err)
	suite.Empty(result.PaidInstallmentIDs)
	suite.True(result.RemainingAmount.Equal(decimal.NewFromInt(10)))
	suite.transactionRepo.AssertNotCalled(suite.T(), "MarkInstallmentsPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestRegisterPartialPayment_NotAPlan() {
	txn := &domain.Transaction{TransactionID: "txn-1", Type: domain.Expense}
	suite.transactionRepo.On("FindTransactionByID", suite.ctx, suite.userID, "txn-1").Return(txn, nil)

	_, err := suite.service.RegisterPartialPayment(suite.ctx, suite.userID, "txn-1", decimal.NewFromInt(10))

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestMarkInstallmentPaid_LastOneSettlesParent() {
	txn := suite.planTransaction("txn-1", domain.InstallmentPaid, domain.InstallmentPaid)
	// The suite fetches the parent after settling the installment; the
	// returned snapshot already shows every installment paid.
	last := domain.Installment{
		InstallmentID:     "inst-2",
		TransactionID:     "txn-1",
		InstallmentNumber: 2,
		Amount:            decimal.NewFromInt(25),
		Status:            domain.InstallmentPending,
	}
	suite.transactionRepo.On("FindInstallmentByID", suite.ctx, suite.userID, "inst-2").Return(&last, nil)
	suite.transactionRepo.On("MarkInstallmentsPaid", suite.ctx, suite.userID, []string{"inst-2"}, mock.AnythingOfType("time.Time")).Return(nil)
	suite.transactionRepo.On("FindTransactionByID", suite.ctx, suite.userID, "txn-1").Return(txn, nil)
	suite.transactionRepo.On("MarkTransactionPaid", suite.ctx, suite.userID, "txn-1").Return(nil)

	paid, err := suite.service.MarkInstallmentPaid(suite.ctx, suite.userID, "inst-2")

	suite.NoError(err)
	suite.Equal(domain.InstallmentPaid, paid.Status)
	suite.NotNil(paid.PaidDate)
	suite.transactionRepo.AssertCalled(suite.T(), "MarkTransactionPaid", suite.ctx, suite.userID, "txn-1")
}

func (suite *TransactionServiceTestSuite) TestMarkInstallmentPaid_AlreadyPaid() {
	inst := domain.Installment{
		InstallmentID: "inst-1",
		TransactionID: "txn-1",
		Status:        domain.InstallmentPaid,
	}
	suite.transactionRepo.On("FindInstallmentByID", suite.ctx, suite.userID, "inst-1").Return(&inst, nil)

	_, err := suite.service.MarkInstallmentPaid(suite.ctx, suite.userID, "inst-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.transactionRepo.AssertNotCalled(suite.T(), "MarkInstallmentsPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_MergesVirtualOccurrences() {
	month, year := 6, 2024
	filter := domain.TransactionFilter{Month: &month, Year: &year}
	stored := domain.Transaction{
		TransactionID: "txn-1",
		Description:   "groceries",
		Amount:        decimal.NewFromInt(42),
		Date:          time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		Type:          domain.Expense,
	}
	sub := domain.Subscription{
		SubscriptionID:  "sub-1",
		UserID:          suite.userID,
		Name:            "Netflix",
		Amount:          decimal.NewFromFloat(15.99),
		Type:            domain.Expense,
		Frequency:       domain.Monthly,
		StartDate:       time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
		NextPaymentDate: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
	}

	suite.transactionRepo.On("ListTransactions", suite.ctx, suite.userID, filter).Return([]domain.Transaction{stored}, nil)
	suite.subscriptionRepo.On("ListActiveSubscriptions", suite.ctx, suite.userID).Return([]domain.Subscription{sub}, nil)

	txns, err := suite.service.ListTransactions(suite.ctx, suite.userID, filter)

	suite.NoError(err)
	suite.Len(txns, 2)
	suite.False(txns[0].IsVirtual)
	suite.True(txns[1].IsVirtual)
	suite.Equal("sub-1", *txns[1].SubscriptionID)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_NoMonthNoVirtual() {
	filter := domain.TransactionFilter{}
	suite.transactionRepo.On("ListTransactions", suite.ctx, suite.userID, filter).Return([]domain.Transaction{}, nil)

	_, err := suite.service.ListTransactions(suite.ctx, suite.userID, filter)

	suite.NoError(err)
	suite.subscriptionRepo.AssertNotCalled(suite.T(), "ListActiveSubscriptions", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestGetSummary_PeriodIncludesDueInstallments() {
	month, year := 2, 2024
	// Plan dated january with installments due january and february: only
	// the february slice lands in the february summary.
	plan := suite.planTransaction("txn-1", domain.InstallmentPending, domain.InstallmentPending)
	income := domain.Transaction{
		TransactionID: "txn-2",
		Amount:        decimal.NewFromInt(1000),
		Date:          time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Type:          domain.Income,
	}

	suite.transactionRepo.On("ListTransactions", suite.ctx, suite.userID, domain.TransactionFilter{}).
		Return([]domain.Transaction{*plan, income}, nil)
	suite.subscriptionRepo.On("ListActiveSubscriptions", suite.ctx, suite.userID).Return([]domain.Subscription{}, nil)

	summary, err := suite.service.GetSummary(suite.ctx, suite.userID, &month, &year)

	suite.NoError(err)
	suite.True(summary.TotalIncome.Equal(decimal.NewFromInt(1000)))
	suite.True(summary.TotalExpenses.Equal(decimal.NewFromInt(25)))
	suite.True(summary.Balance.Equal(decimal.NewFromInt(975)))
}

func (suite *TransactionServiceTestSuite) TestGetSummary_AllTime() {
	expense := domain.Transaction{
		TransactionID: "txn-1",
		Amount:        decimal.NewFromInt(300),
		Date:          time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC),
		Type:          domain.Expense,
	}
	income := domain.Transaction{
		TransactionID: "txn-2",
		Amount:        decimal.NewFromInt(1000),
		Date:          time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Type:          domain.Income,
	}
	suite.transactionRepo.On("ListTransactions", suite.ctx, suite.userID, domain.TransactionFilter{}).
		Return([]domain.Transaction{expense, income}, nil)

	summary, err := suite.service.GetSummary(suite.ctx, suite.userID, nil, nil)

	suite.NoError(err)
	suite.True(summary.Balance.Equal(decimal.NewFromInt(700)))
	suite.Equal(2, summary.TransactionCount)
	suite.subscriptionRepo.AssertNotCalled(suite.T(), "ListActiveSubscriptions", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestMarkTransactionPaid_AlreadyPaid() {
	suite.transactionRepo.On("MarkTransactionPaid", suite.ctx, suite.userID, "txn-1").Return(apperrors.ErrConflict)

	_, err := suite.service.MarkTransactionPaid(suite.ctx, suite.userID, "txn-1")

	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
