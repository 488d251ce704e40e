package repositories

import (
	"context"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
)

// ExpenseReader defines read operations for expense data.
type ExpenseReader interface {
	// FindExpenseByID retrieves a single expense with its scopes,
	// participants and payers hydrated.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// FindExpensesInvolvingUser retrieves every expense in which the user
	// appears as creator, participant or payer, de-duplicated by expense id.
	// It either returns the complete set or an error wrapping
	// apperrors.ErrDataUnavailable; it never returns a partial set.
	FindExpensesInvolvingUser(ctx context.Context, userID string) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expense data.
type ExpenseWriter interface {
	// SaveExpense persists an expense together with its scopes, participants
	// and payers in one transaction. Expenses are immutable afterwards.
	SaveExpense(ctx context.Context, expense domain.Expense) error
}

// ExpenseRepository combines read and write operations for expenses.
type ExpenseRepository interface {
	ExpenseReader
	ExpenseWriter
}
