package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
	"github.com/hisaab-app/hisaab_backend/internal/middleware"
)

type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(expenseService portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: expenseService}
}

// RegisterExpenseRoutes registers the expense endpoints on the authenticated v1 group.
func RegisterExpenseRoutes(v1 *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := v1.Group("/expenses")
	expenses.POST("", h.createExpense)
	expenses.GET("", h.listExpenses)
	expenses.GET("/:expenseID", h.getExpense)
}

// createExpense godoc
// @Summary Record an expense
// @Description Records an expense with its scopes, participants and payers.
// @Description Participant shares are derived from the split type when not given explicitly.
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid request"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("failed to create expense", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List the authenticated user's expenses
// @Description Returns every expense the user is involved in, most recent first
// @Tags expenses
// @Produce json
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 503 {object} map[string]string "Expense history unavailable"
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	expenses, err := h.expenseService.ListExpensesForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDataUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Expense history is temporarily unavailable"})
			return
		}
		logger.Error("failed to list expenses", "error", err, "userID", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expenses"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListExpensesResponse(expenses))
}

// getExpense godoc
// @Summary Get an expense by id
// @Tags expenses
// @Produce json
// @Param expenseID path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string "Expense not found"
// @Security BearerAuth
// @Router /expenses/{expenseID} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), expenseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
			return
		}
		logger.Error("failed to get expense", "error", err, "expenseID", expenseID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get expense"})
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}
