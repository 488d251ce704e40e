package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
	"github.com/hisaab-app/hisaab_backend/internal/middleware"
)

type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
}

func newBalanceHandler(balanceService portssvc.BalanceSvcFacade) *balanceHandler {
	return &balanceHandler{balanceService: balanceService}
}

// RegisterBalanceRoutes registers the balance endpoints on the authenticated v1 group.
// Every endpoint recomputes from the expense history; a partial history is
// reported as 503, never as a zero balance.
func RegisterBalanceRoutes(v1 *gin.RouterGroup, balanceService portssvc.BalanceSvcFacade) {
	h := newBalanceHandler(balanceService)

	balances := v1.Group("/balances")
	balances.GET("/summary", h.getSummary)
	balances.GET("/counterparties", h.getCounterpartyBalances)
	balances.GET("/groups", h.getGroupBalances)
	balances.GET("/consolidated", h.getConsolidatedBalances)
}

// getSummary godoc
// @Summary Get the user's overall balance summary
// @Description Total owed, total owed-to and net balance across all expenses
// @Tags balances
// @Produce json
// @Success 200 {object} dto.BalanceSummaryResponse
// @Failure 503 {object} map[string]string "Expense history unavailable"
// @Security BearerAuth
// @Router /balances/summary [get]
func (h *balanceHandler) getSummary(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	summary, err := h.balanceService.CalculateBalance(c.Request.Context(), userID)
	if err != nil {
		h.respondBalanceError(c, err, "failed to calculate balance summary", userID)
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSummaryResponse(summary))
}

// getCounterpartyBalances godoc
// @Summary Get per-person balances over direct expenses
// @Description Signed balance per counterparty, group expenses excluded
// @Tags balances
// @Produce json
// @Success 200 {array} dto.CounterpartyBalanceResponse
// @Failure 503 {object} map[string]string "Expense history unavailable"
// @Security BearerAuth
// @Router /balances/counterparties [get]
func (h *balanceHandler) getCounterpartyBalances(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	balances, err := h.balanceService.BalancesByCounterparty(c.Request.Context(), userID)
	if err != nil {
		h.respondBalanceError(c, err, "failed to calculate counterparty balances", userID)
		return
	}

	c.JSON(http.StatusOK, dto.ToCounterpartyBalanceResponses(balances))
}

// getGroupBalances godoc
// @Summary Get per-group balances
// @Description Net amount and member breakdown for each group the user shares expenses in
// @Tags balances
// @Produce json
// @Success 200 {array} dto.GroupBalanceResponse
// @Failure 503 {object} map[string]string "Expense history unavailable"
// @Security BearerAuth
// @Router /balances/groups [get]
func (h *balanceHandler) getGroupBalances(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	balances, err := h.balanceService.GroupBalances(c.Request.Context(), userID)
	if err != nil {
		h.respondBalanceError(c, err, "failed to calculate group balances", userID)
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupBalanceResponses(balances))
}

// getConsolidatedBalances godoc
// @Summary Get consolidated per-person balances
// @Description Merges direct and group balances into one amount per person.
// @Description The optional currency query overrides the label currency.
// @Tags balances
// @Produce json
// @Param currency query string false "Currency code to label amounts with"
// @Success 200 {array} dto.CounterpartyBalanceResponse
// @Failure 503 {object} map[string]string "Expense history unavailable"
// @Security BearerAuth
// @Router /balances/consolidated [get]
func (h *balanceHandler) getConsolidatedBalances(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var picker portssvc.PrimaryCurrencyPicker
	if currency := c.Query("currency"); currency != "" {
		if !currencyCodePattern.MatchString(currency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid currency code"})
			return
		}
		picker = func([]domain.CounterpartyBalance) string { return currency }
	}

	balances, err := h.balanceService.ConsolidatedBalances(c.Request.Context(), userID, picker)
	if err != nil {
		h.respondBalanceError(c, err, "failed to consolidate balances", userID)
		return
	}

	c.JSON(http.StatusOK, dto.ToCounterpartyBalanceResponses(balances))
}

func (h *balanceHandler) respondBalanceError(c *gin.Context, err error, msg string, userID string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if errors.Is(err, apperrors.ErrDataUnavailable) {
		logger.Warn(msg, "error", err, "userID", userID)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Balances are temporarily unavailable"})
		return
	}
	logger.Error(msg, "error", err, "userID", userID)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate balances"})
}
