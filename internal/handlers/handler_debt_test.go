package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/handlers"
	"github.com/finbook/finbook_backend/internal/platform/config"
)

// --- Mock DebtService ---

type MockDebtService struct {
	mock.Mock
}

func (m *MockDebtService) GetDebtByID(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtService) ListDebts(ctx context.Context, userID string, status *domain.DebtStatus) ([]domain.Debt, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtService) ListDebtsByDebtor(ctx context.Context, userID string, debtorID string) ([]domain.Debt, error) {
	args := m.Called(ctx, userID, debtorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockDebtService) ListPayments(ctx context.Context, userID string, debtID string) ([]domain.Payment, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockDebtService) CreateDebt(ctx context.Context, userID string, req dto.CreateDebtRequest) (*domain.Debt, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtService) UpdateDebt(ctx context.Context, userID string, debtID string, req dto.UpdateDebtRequest) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtService) DeleteDebt(ctx context.Context, userID string, debtID string) error {
	args := m.Called(ctx, userID, debtID)
	return args.Error(0)
}

func (m *MockDebtService) CreatePayment(ctx context.Context, userID string, debtID string, req dto.CreatePaymentRequest) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtService) MarkDebtPaid(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	args := m.Called(ctx, userID, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockDebtService) DeletePayment(ctx context.Context, userID string, paymentID string) error {
	args := m.Called(ctx, userID, paymentID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.DebtSvcFacade = (*MockDebtService)(nil)

// --- Test Suite ---

type DebtHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockDebtService *MockDebtService
	jwtSecret       string
	userID          string
}

func (suite *DebtHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "finbook-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *DebtHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.mockDebtService = new(MockDebtService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	container := &portssvc.ServiceContainer{DebtService: suite.mockDebtService}
	authLimiter := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 100})
	handlers.RegisterRoutes(suite.router, cfg, container, authLimiter)
}

func (suite *DebtHandlerTestSuite) authedRequest(method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *DebtHandlerTestSuite) testDebt(debtID string) *domain.Debt {
	return &domain.Debt{
		DebtID:          debtID,
		DebtorID:        uuid.NewString(),
		Description:     "lunch money",
		TotalAmount:     decimal.NewFromInt(100),
		PaidAmount:      decimal.NewFromInt(40),
		RemainingAmount: decimal.NewFromInt(60),
		Status:          domain.DebtPending,
	}
}

// --- Test Cases ---

func (suite *DebtHandlerTestSuite) TestGetDebt_Success() {
	debtID := uuid.NewString()
	suite.mockDebtService.On("GetDebtByID",
		mock.Anything, suite.userID, debtID,
	).Return(suite.testDebt(debtID), nil).Once()

	w := suite.authedRequest(http.MethodGet, fmt.Sprintf("/api/v1/debts/%s", debtID), nil)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.DebtResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(debtID, body.DebtID)
	suite.True(body.RemainingAmount.Equal(decimal.NewFromInt(60)))
	suite.mockDebtService.AssertExpectations(suite.T())
}

func (suite *DebtHandlerTestSuite) TestGetDebt_NotFound() {
	debtID := uuid.NewString()
	suite.mockDebtService.On("GetDebtByID",
		mock.Anything, suite.userID, debtID,
	).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.authedRequest(http.MethodGet, fmt.Sprintf("/api/v1/debts/%s", debtID), nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *DebtHandlerTestSuite) TestMarkDebtPaid_AlreadySettled() {
	debtID := uuid.NewString()
	suite.mockDebtService.On("MarkDebtPaid",
		mock.Anything, suite.userID, debtID,
	).Return(nil, fmt.Errorf("%w: debt is already settled", apperrors.ErrConflict)).Once()

	w := suite.authedRequest(http.MethodPost, fmt.Sprintf("/api/v1/debts/%s/mark-paid", debtID), nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *DebtHandlerTestSuite) TestCreatePayment_Success() {
	debtID := uuid.NewString()
	settled := suite.testDebt(debtID)
	settled.PaidAmount = decimal.NewFromInt(100)
	settled.RemainingAmount = decimal.Zero
	settled.Status = domain.DebtPaid

	suite.mockDebtService.On("CreatePayment",
		mock.Anything, suite.userID, debtID,
		mock.MatchedBy(func(req dto.CreatePaymentRequest) bool {
			return req.Amount.Equal(decimal.NewFromInt(60))
		}),
	).Return(settled, nil).Once()

	w := suite.authedRequest(http.MethodPost, fmt.Sprintf("/api/v1/debts/%s/payments", debtID),
		dto.CreatePaymentRequest{Amount: decimal.NewFromInt(60)})

	suite.Equal(http.StatusCreated, w.Code)

	var body dto.DebtResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(domain.DebtPaid, body.Status)
	suite.mockDebtService.AssertExpectations(suite.T())
}

func (suite *DebtHandlerTestSuite) TestListDebtsByStatus_InvalidStatus() {
	w := suite.authedRequest(http.MethodGet, "/api/v1/debts/status/WHATEVER", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockDebtService.AssertNotCalled(suite.T(), "ListDebts", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DebtHandlerTestSuite) TestGetDebt_MissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/debts/some-id", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestDebtHandler(t *testing.T) {
	suite.Run(t, new(DebtHandlerTestSuite))
}
