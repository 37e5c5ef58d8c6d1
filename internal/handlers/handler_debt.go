package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/core/domain"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/middleware"
)

// debtHandler handles HTTP requests related to debts and their payments.
type debtHandler struct {
	debtService portssvc.DebtSvcFacade
}

// registerDebtRoutes registers routes related to debts and payments.
func registerDebtRoutes(rg *gin.RouterGroup, ds portssvc.DebtSvcFacade) {
	h := &debtHandler{debtService: ds}

	debts := rg.Group("/debts")
	{
		debts.POST("", h.createDebt)
		debts.GET("", h.listDebts)
		debts.GET("/status/:status", h.listDebtsByStatus)
		debts.GET("/:debtId", h.getDebt)
		debts.PUT("/:debtId", h.updateDebt)
		debts.DELETE("/:debtId", h.deleteDebt)
		debts.POST("/:debtId/mark-paid", h.markDebtPaid)
		debts.POST("/:debtId/payments", h.createPayment)
		debts.GET("/:debtId/payments", h.listPayments)
	}

	rg.DELETE("/payments/:paymentId", h.deletePayment)
}

// createDebt godoc
// @Summary Create a new debt
// @Description Records an amount a debtor owes the user
// @Tags debts
// @Accept json
// @Produce json
// @Param debt body dto.CreateDebtRequest true "Debt details"
// @Success 201 {object} dto.DebtResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Debtor not found"
// @Security BearerAuth
// @Router /debts [post]
func (h *debtHandler) createDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for debt create", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debt, err := h.debtService.CreateDebt(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create debt")
		return
	}

	logger.Info("Debt created", slog.String("debt_id", debt.DebtID))
	c.JSON(http.StatusCreated, dto.ToDebtResponse(debt))
}

// listDebts godoc
// @Summary List debts
// @Description Returns the user's debts with reconciled paid and remaining amounts
// @Tags debts
// @Produce json
// @Success 200 {array} dto.DebtResponse
// @Security BearerAuth
// @Router /debts [get]
func (h *debtHandler) listDebts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	debts, err := h.debtService.ListDebts(c.Request.Context(), userID, nil)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDebtResponse(debts))
}

// listDebtsByStatus godoc
// @Summary List debts filtered by status
// @Description Filters on the reconciled status, not the stored one
// @Tags debts
// @Produce json
// @Param status path string true "Debt status" Enums(PENDING, PAID)
// @Success 200 {array} dto.DebtResponse
// @Failure 400 {object} map[string]string "Unknown status"
// @Security BearerAuth
// @Router /debts/status/{status} [get]
func (h *debtHandler) listDebtsByStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status := domain.DebtStatus(c.Param("status"))
	if status != domain.DebtPending && status != domain.DebtPaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown debt status %q", c.Param("status"))})
		return
	}

	debts, err := h.debtService.ListDebts(c.Request.Context(), userID, &status)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDebtResponse(debts))
}

// getDebt godoc
// @Summary Get a debt by ID
// @Tags debts
// @Produce json
// @Param debtId path string true "Debt ID"
// @Success 200 {object} dto.DebtResponse
// @Failure 404 {object} map[string]string "Debt not found"
// @Security BearerAuth
// @Router /debts/{debtId} [get]
func (h *debtHandler) getDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	debt, err := h.debtService.GetDebtByID(c.Request.Context(), userID, c.Param("debtId"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve debt")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// updateDebt godoc
// @Summary Update a debt
// @Description A PAID status in the request engages the one-way latch; it cannot be reverted later
// @Tags debts
// @Accept json
// @Produce json
// @Param debtId path string true "Debt ID"
// @Param debt body dto.UpdateDebtRequest true "Fields to update"
// @Success 200 {object} dto.DebtResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Debt not found"
// @Security BearerAuth
// @Router /debts/{debtId} [put]
func (h *debtHandler) updateDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for debt update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debt, err := h.debtService.UpdateDebt(c.Request.Context(), userID, c.Param("debtId"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update debt")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// deleteDebt godoc
// @Summary Delete a debt
// @Tags debts
// @Param debtId path string true "Debt ID"
// @Success 204 "Debt deleted"
// @Failure 404 {object} map[string]string "Debt not found"
// @Security BearerAuth
// @Router /debts/{debtId} [delete]
func (h *debtHandler) deleteDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.debtService.DeleteDebt(c.Request.Context(), userID, c.Param("debtId")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete debt")
		return
	}

	logger.Info("Debt deleted", slog.String("debt_id", c.Param("debtId")))
	c.Status(http.StatusNoContent)
}

// markDebtPaid godoc
// @Summary Mark a debt as paid
// @Description Force-settles the debt and records the receivable-collected income transaction. Fails if the debt is already settled.
// @Tags debts
// @Produce json
// @Param debtId path string true "Debt ID"
// @Success 200 {object} dto.DebtResponse
// @Failure 404 {object} map[string]string "Debt not found"
// @Failure 409 {object} map[string]string "Debt is already settled"
// @Security BearerAuth
// @Router /debts/{debtId}/mark-paid [post]
func (h *debtHandler) markDebtPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	debt, err := h.debtService.MarkDebtPaid(c.Request.Context(), userID, c.Param("debtId"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to mark debt as paid")
		return
	}

	logger.Info("Debt marked as paid", slog.String("debt_id", debt.DebtID))
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// createPayment godoc
// @Summary Record a payment against a debt
// @Description When the payment total reaches the debt amount, the debt settles and the income transaction is recorded atomically
// @Tags debts
// @Accept json
// @Produce json
// @Param debtId path string true "Debt ID"
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} dto.DebtResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Debt not found"
// @Security BearerAuth
// @Router /debts/{debtId}/payments [post]
func (h *debtHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for payment create", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debt, err := h.debtService.CreatePayment(c.Request.Context(), userID, c.Param("debtId"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("debt_id", debt.DebtID))
	c.JSON(http.StatusCreated, dto.ToDebtResponse(debt))
}

// listPayments godoc
// @Summary List a debt's payments
// @Tags debts
// @Produce json
// @Param debtId path string true "Debt ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Debt not found"
// @Security BearerAuth
// @Router /debts/{debtId}/payments [get]
func (h *debtHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payments, err := h.debtService.ListPayments(c.Request.Context(), userID, c.Param("debtId"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPaymentResponse(payments))
}

// deletePayment godoc
// @Summary Delete a payment
// @Description Removes the payment. A settled debt stays settled; only the reported amounts change.
// @Tags debts
// @Param paymentId path string true "Payment ID"
// @Success 204 "Payment deleted"
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{paymentId} [delete]
func (h *debtHandler) deletePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.debtService.DeletePayment(c.Request.Context(), userID, c.Param("paymentId")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete payment")
		return
	}

	logger.Info("Payment deleted", slog.String("payment_id", c.Param("paymentId")))
	c.Status(http.StatusNoContent)
}
