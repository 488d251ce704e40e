package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense represents an expense row; scopes, participants and payers live in
// their own tables keyed by expense_id.
type Expense struct {
	ExpenseID    string          `json:"expenseID" db:"expense_id"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Description  string          `json:"description" db:"description"`
	CurrencyCode string          `json:"currencyCode" db:"currency_code"`
	CreatedBy    string          `json:"createdBy" db:"created_by"`
	SplitType    string          `json:"splitType" db:"split_type"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

// ExpenseScope tags an expense with a user or group it was shared with.
type ExpenseScope struct {
	ExpenseID string `json:"expenseID" db:"expense_id"`
	ScopeType string `json:"scopeType" db:"scope_type"`
	ScopeID   string `json:"scopeID" db:"scope_id"`
}

// ExpenseParticipant is one participant row of an expense.
type ExpenseParticipant struct {
	ExpenseID  string           `json:"expenseID" db:"expense_id"`
	UserID     string           `json:"userID" db:"user_id"`
	AmountOwed decimal.Decimal  `json:"amountOwed" db:"amount_owed"`
	Percentage *decimal.Decimal `json:"percentage,omitempty" db:"percentage"`
}

// ExpensePayer is one payer row of an expense.
type ExpensePayer struct {
	ExpenseID  string          `json:"expenseID" db:"expense_id"`
	UserID     string          `json:"userID" db:"user_id"`
	AmountPaid decimal.Decimal `json:"amountPaid" db:"amount_paid"`
}
