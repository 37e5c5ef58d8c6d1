package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/middleware"
)

// subscriptionHandler handles HTTP requests related to subscriptions.
type subscriptionHandler struct {
	subscriptionService portssvc.SubscriptionSvcFacade
}

// registerSubscriptionRoutes registers routes related to subscriptions.
func registerSubscriptionRoutes(rg *gin.RouterGroup, ss portssvc.SubscriptionSvcFacade) {
	h := &subscriptionHandler{subscriptionService: ss}

	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.POST("", h.createSubscription)
		subscriptions.GET("", h.listSubscriptions)
		subscriptions.GET("/upcoming", h.listUpcoming)
		subscriptions.POST("/process", h.processSubscriptions)
		subscriptions.GET("/:id", h.getSubscription)
		subscriptions.PUT("/:id", h.updateSubscription)
		subscriptions.DELETE("/:id", h.deleteSubscription)
		subscriptions.PATCH("/:id/toggle", h.toggleSubscription)
	}
}

// createSubscription godoc
// @Summary Create a subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscription body dto.CreateSubscriptionRequest true "Subscription details"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Subscription name already in use"
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *subscriptionHandler) createSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for subscription create", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	subscription, err := h.subscriptionService.CreateSubscription(c.Request.Context(), userID, req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create subscription")
		return
	}

	logger.Info("Subscription created", slog.String("subscription_id", subscription.SubscriptionID))
	c.JSON(http.StatusCreated, dto.ToSubscriptionResponse(subscription, time.Now()))
}

// listSubscriptions godoc
// @Summary List subscriptions
// @Tags subscriptions
// @Produce json
// @Success 200 {array} dto.SubscriptionResponse
// @Security BearerAuth
// @Router /subscriptions [get]
func (h *subscriptionHandler) listSubscriptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	subscriptions, err := h.subscriptionService.ListSubscriptions(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list subscriptions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListSubscriptionResponse(subscriptions, time.Now()))
}

// listUpcoming godoc
// @Summary List upcoming subscriptions
// @Description Returns active subscriptions due within the next given number of days, overdue ones included
// @Tags subscriptions
// @Produce json
// @Param days query int false "Horizon in days (default 30)"
// @Success 200 {array} dto.SubscriptionResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /subscriptions/upcoming [get]
func (h *subscriptionHandler) listUpcoming(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListUpcomingParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for upcoming subscriptions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	subscriptions, err := h.subscriptionService.ListUpcoming(c.Request.Context(), userID, params.Days)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list upcoming subscriptions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListSubscriptionResponse(subscriptions, time.Now()))
}

// processSubscriptions godoc
// @Summary Process the user's due subscriptions
// @Description Materializes each due subscription into a real transaction, one occurrence per subscription per call
// @Tags subscriptions
// @Produce json
// @Success 200 {object} dto.ProcessSubscriptionsResponse
// @Security BearerAuth
// @Router /subscriptions/process [post]
func (h *subscriptionHandler) processSubscriptions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.subscriptionService.ProcessDueSubscriptions(c.Request.Context(), &userID, time.Now())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to process subscriptions")
		return
	}

	logger.Info("Subscriptions processed",
		slog.Int("processed", result.ProcessedCount),
		slog.Int("failed", len(result.Errors)))
	c.JSON(http.StatusOK, dto.ToProcessSubscriptionsResponse(result))
}

// getSubscription godoc
// @Summary Get a subscription by ID
// @Tags subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} map[string]string "Subscription not found"
// @Security BearerAuth
// @Router /subscriptions/{id} [get]
func (h *subscriptionHandler) getSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	subscription, err := h.subscriptionService.GetSubscriptionByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve subscription")
		return
	}
	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(subscription, time.Now()))
}

// updateSubscription godoc
// @Summary Update a subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Subscription ID"
// @Param subscription body dto.UpdateSubscriptionRequest true "Fields to update"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Subscription not found"
// @Failure 409 {object} map[string]string "Subscription name already in use"
// @Security BearerAuth
// @Router /subscriptions/{id} [put]
func (h *subscriptionHandler) updateSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for subscription update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	subscription, err := h.subscriptionService.UpdateSubscription(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update subscription")
		return
	}
	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(subscription, time.Now()))
}

// deleteSubscription godoc
// @Summary Delete a subscription
// @Description Deletes the subscription; transactions it generated keep existing with the link cleared
// @Tags subscriptions
// @Param id path string true "Subscription ID"
// @Success 204 "Subscription deleted"
// @Failure 404 {object} map[string]string "Subscription not found"
// @Security BearerAuth
// @Router /subscriptions/{id} [delete]
func (h *subscriptionHandler) deleteSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.subscriptionService.DeleteSubscription(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete subscription")
		return
	}

	logger.Info("Subscription deleted", slog.String("subscription_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}

// toggleSubscription godoc
// @Summary Toggle a subscription between active and paused
// @Tags subscriptions
// @Produce json
// @Param id path string true "Subscription ID"
// @Success 200 {object} dto.SubscriptionResponse
// @Failure 404 {object} map[string]string "Subscription not found"
// @Security BearerAuth
// @Router /subscriptions/{id}/toggle [patch]
func (h *subscriptionHandler) toggleSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	subscription, err := h.subscriptionService.ToggleSubscription(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to toggle subscription")
		return
	}

	logger.Info("Subscription toggled",
		slog.String("subscription_id", subscription.SubscriptionID),
		slog.Bool("is_active", subscription.IsActive))
	c.JSON(http.StatusOK, dto.ToSubscriptionResponse(subscription, time.Now()))
}
