package services

import (
	"context"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
)

// ExpenseSvcFacade defines operations for recording and reading expenses.
type ExpenseSvcFacade interface {
	// CreateExpense validates and persists a new expense. Participant shares
	// are derived from the split type when not given explicitly; payer
	// amounts must sum to the expense amount.
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error)

	// GetExpenseByID retrieves a single expense.
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpensesForUser retrieves every expense the user is involved in
	// (creator, participant or payer), most recent first. Expenses without a
	// timestamp sort last.
	ListExpensesForUser(ctx context.Context, userID string) ([]domain.Expense, error)
}
