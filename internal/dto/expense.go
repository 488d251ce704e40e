package dto

import (
	"time"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExpenseScopeRequest tags the expense with a user or group it is shared with.
type ExpenseScopeRequest struct {
	Type string `json:"type" binding:"required,oneof=user group"`
	ID   string `json:"id" binding:"required"`
}

// ExpenseParticipantRequest describes one participant's share.
// AmountOwed may be omitted for equal splits (derived from the amount) and
// percentage splits (derived from Percentage); share splits require it.
type ExpenseParticipantRequest struct {
	UserID     string           `json:"userID" binding:"required"`
	AmountOwed *decimal.Decimal `json:"amountOwed"`
	Percentage *decimal.Decimal `json:"percentage"`
}

// ExpensePayerRequest describes one payer's contribution.
type ExpensePayerRequest struct {
	UserID     string          `json:"userID" binding:"required"`
	AmountPaid decimal.Decimal `json:"amountPaid" binding:"required"`
}

// CreateExpenseRequest defines the data needed to record an expense.
type CreateExpenseRequest struct {
	Amount       decimal.Decimal             `json:"amount" binding:"required"`
	Description  string                      `json:"description"`
	CurrencyCode string                      `json:"currencyCode" binding:"required,currencycode"`
	SplitType    string                      `json:"splitType" binding:"required,oneof=equal percentage share"`
	Scopes       []ExpenseScopeRequest       `json:"scopes" binding:"required,min=1,dive"`
	Participants []ExpenseParticipantRequest `json:"participants" binding:"required,min=1,dive"`
	Payers       []ExpensePayerRequest       `json:"payers" binding:"required,min=1,dive"`
}

// ExpenseParticipantResponse mirrors one participant row.
type ExpenseParticipantResponse struct {
	UserID     string           `json:"userID"`
	AmountOwed decimal.Decimal  `json:"amountOwed"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// ExpensePayerResponse mirrors one payer row.
type ExpensePayerResponse struct {
	UserID     string          `json:"userID"`
	AmountPaid decimal.Decimal `json:"amountPaid"`
}

// ExpenseScopeResponse mirrors one expense scope tag.
type ExpenseScopeResponse struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// ExpenseResponse is the API representation of an expense.
type ExpenseResponse struct {
	ExpenseID    string                       `json:"expenseID"`
	Amount       decimal.Decimal              `json:"amount"`
	Description  string                       `json:"description"`
	CurrencyCode string                       `json:"currencyCode"`
	CreatedBy    string                       `json:"createdBy"`
	SplitType    string                       `json:"splitType"`
	Scopes       []ExpenseScopeResponse       `json:"scopes"`
	Participants []ExpenseParticipantResponse `json:"participants"`
	Payers       []ExpensePayerResponse       `json:"payers"`
	CreatedAt    time.Time                    `json:"createdAt"`
}

// ListExpensesResponse wraps the list of expenses.
type ListExpensesResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

// ToExpenseResponse converts a domain.Expense to its API representation.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	scopes := make([]ExpenseScopeResponse, len(e.Scopes))
	for i, s := range e.Scopes {
		scopes[i] = ExpenseScopeResponse{Type: string(s.Type), ID: s.ID}
	}
	participants := make([]ExpenseParticipantResponse, len(e.Participants))
	for i, p := range e.Participants {
		participants[i] = ExpenseParticipantResponse{
			UserID:     p.UserID,
			AmountOwed: p.AmountOwed,
			Percentage: p.Percentage,
		}
	}
	payers := make([]ExpensePayerResponse, len(e.Payers))
	for i, p := range e.Payers {
		payers[i] = ExpensePayerResponse{UserID: p.UserID, AmountPaid: p.AmountPaid}
	}
	return ExpenseResponse{
		ExpenseID:    e.ExpenseID,
		Amount:       e.Amount,
		Description:  e.Description,
		CurrencyCode: e.CurrencyCode,
		CreatedBy:    e.CreatedBy,
		SplitType:    string(e.SplitType),
		Scopes:       scopes,
		Participants: participants,
		Payers:       payers,
		CreatedAt:    e.CreatedAt,
	}
}

// ToListExpensesResponse converts a slice of domain.Expense to ListExpensesResponse.
func ToListExpensesResponse(expenses []domain.Expense) ListExpensesResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		responses[i] = ToExpenseResponse(&expenses[i])
	}
	return ListExpensesResponse{Expenses: responses}
}
