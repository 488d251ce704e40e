package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SplitType indicates how an expense amount is divided among its participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
	SplitShare      SplitType = "share"
)

// ScopeType distinguishes user-level from group-level expense scopes.
type ScopeType string

const (
	ScopeUser  ScopeType = "user"
	ScopeGroup ScopeType = "group"
)

// ExpenseScope tags an expense with a user or group it was shared with.
// An expense with at least one group scope is a group expense.
type ExpenseScope struct {
	Type ScopeType `json:"type"`
	ID   string    `json:"id"`
}

// ExpenseParticipant is a user obligated to contribute AmountOwed to an expense.
// Percentage is only set for percentage splits.
type ExpenseParticipant struct {
	UserID     string           `json:"userID"`
	AmountOwed decimal.Decimal  `json:"amountOwed"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// ExpensePayer is a user who actually contributed AmountPaid toward an expense.
type ExpensePayer struct {
	UserID     string          `json:"userID"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
}

// Expense represents a shared expense. Expenses are immutable once created;
// all balances are recomputed from the full expense history on demand.
type Expense struct {
	ExpenseID    string               `json:"expenseID"` // Primary Key (e.g., UUID)
	Amount       decimal.Decimal      `json:"amount"`
	Description  string               `json:"description"`
	CurrencyCode string               `json:"currencyCode"`
	CreatedBy    string               `json:"createdBy"`
	SplitType    SplitType            `json:"splitType"`
	Scopes       []ExpenseScope       `json:"scopes"`
	Participants []ExpenseParticipant `json:"participants"`
	Payers       []ExpensePayer       `json:"payers"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// IsGroupExpense reports whether the expense carries at least one group scope.
func (e Expense) IsGroupExpense() bool {
	for _, s := range e.Scopes {
		if s.Type == ScopeGroup {
			return true
		}
	}
	return false
}

// GroupIDs returns the group ids the expense is scoped to. Usually at most
// one, but every group scope present is processed as its own group context.
func (e Expense) GroupIDs() []string {
	var ids []string
	for _, s := range e.Scopes {
		if s.Type == ScopeGroup {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// PaidBy returns the total amount the given user paid toward the expense.
// A user absent from the payers list paid zero.
func (e Expense) PaidBy(userID string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range e.Payers {
		if p.UserID == userID {
			total = total.Add(p.AmountPaid)
		}
	}
	return total
}

// OwedBy returns the total amount the given user owes on the expense.
// A user absent from the participants list owes zero.
func (e Expense) OwedBy(userID string) decimal.Decimal {
	total := decimal.Zero
	for _, p := range e.Participants {
		if p.UserID == userID {
			total = total.Add(p.AmountOwed)
		}
	}
	return total
}

// Net returns paid minus owed for the given user on this expense.
// Positive means the user overpaid (others owe them), negative means
// the user underpaid (they owe others).
func (e Expense) Net(userID string) decimal.Decimal {
	return e.PaidBy(userID).Sub(e.OwedBy(userID))
}
