package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/middleware"
)

// debtorHandler handles HTTP requests related to debtors.
type debtorHandler struct {
	debtorService portssvc.DebtorSvcFacade
	debtService   portssvc.DebtSvcFacade
}

// registerDebtorRoutes registers routes related to debtors.
func registerDebtorRoutes(rg *gin.RouterGroup, ds portssvc.DebtorSvcFacade, debts portssvc.DebtSvcFacade) {
	h := &debtorHandler{debtorService: ds, debtService: debts}

	debtors := rg.Group("/debtors")
	{
		debtors.POST("", h.createDebtor)
		debtors.GET("", h.listDebtors)
		debtors.GET("/:id", h.getDebtor)
		debtors.PUT("/:id", h.updateDebtor)
		debtors.DELETE("/:id", h.deleteDebtor)
		debtors.GET("/:id/debts", h.listDebtorDebts)
	}
}

// createDebtor godoc
// @Summary Create a new debtor
// @Tags debtors
// @Accept json
// @Produce json
// @Param debtor body dto.CreateDebtorRequest true "Debtor details"
// @Success 201 {object} dto.DebtorResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /debtors [post]
func (h *debtorHandler) createDebtor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateDebtorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for debtor create", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debtor, err := h.debtorService.CreateDebtor(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create debtor")
		return
	}

	logger.Info("Debtor created", slog.String("debtor_id", debtor.DebtorID))
	c.JSON(http.StatusCreated, dto.ToDebtorResponse(debtor))
}

// listDebtors godoc
// @Summary List debtors
// @Tags debtors
// @Produce json
// @Success 200 {array} dto.DebtorResponse
// @Security BearerAuth
// @Router /debtors [get]
func (h *debtorHandler) listDebtors(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	debtors, err := h.debtorService.ListDebtors(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list debtors")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDebtorResponse(debtors))
}

// getDebtor godoc
// @Summary Get a debtor by ID
// @Tags debtors
// @Produce json
// @Param id path string true "Debtor ID"
// @Success 200 {object} dto.DebtorResponse
// @Failure 404 {object} map[string]string "Debtor not found"
// @Security BearerAuth
// @Router /debtors/{id} [get]
func (h *debtorHandler) getDebtor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	debtor, err := h.debtorService.GetDebtorByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve debtor")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtorResponse(debtor))
}

// updateDebtor godoc
// @Summary Update a debtor
// @Tags debtors
// @Accept json
// @Produce json
// @Param id path string true "Debtor ID"
// @Param debtor body dto.UpdateDebtorRequest true "Fields to update"
// @Success 200 {object} dto.DebtorResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Debtor not found"
// @Security BearerAuth
// @Router /debtors/{id} [put]
func (h *debtorHandler) updateDebtor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateDebtorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for debtor update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	debtor, err := h.debtorService.UpdateDebtor(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update debtor")
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtorResponse(debtor))
}

// deleteDebtor godoc
// @Summary Delete a debtor
// @Description Deletes the debtor and, through the store's cascade, their debts and payments
// @Tags debtors
// @Param id path string true "Debtor ID"
// @Success 204 "Debtor deleted"
// @Failure 404 {object} map[string]string "Debtor not found"
// @Security BearerAuth
// @Router /debtors/{id} [delete]
func (h *debtorHandler) deleteDebtor(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.debtorService.DeleteDebtor(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete debtor")
		return
	}

	logger.Info("Debtor deleted", slog.String("debtor_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}

// listDebtorDebts godoc
// @Summary List a debtor's debts
// @Description Returns the debtor's debts with reconciled paid and remaining amounts
// @Tags debtors
// @Produce json
// @Param id path string true "Debtor ID"
// @Success 200 {array} dto.DebtResponse
// @Failure 404 {object} map[string]string "Debtor not found"
// @Security BearerAuth
// @Router /debtors/{id}/debts [get]
func (h *debtorHandler) listDebtorDebts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	debts, err := h.debtService.ListDebtsByDebtor(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list debts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDebtResponse(debts))
}
