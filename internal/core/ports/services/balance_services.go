package services

import (
	"context"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
)

// PrimaryCurrencyPicker chooses the currency code used to label a
// consolidated, currency-blind total. Callers may substitute their own
// policy; the default picks the most frequent currency across the user's
// direct balances with a first-seen tie-break.
type PrimaryCurrencyPicker func(balances []domain.CounterpartyBalance) string

// BalanceSvcFacade derives "who owes whom how much" from the raw expense
// history. All operations recompute from scratch on every call; there is no
// persisted running balance.
type BalanceSvcFacade interface {
	// CalculateBalance computes the user's total owed, total owed-to and net
	// balance across all expenses they are involved in.
	CalculateBalance(ctx context.Context, userID string) (*domain.BalanceSummary, error)

	// BalancesByCounterparty computes a signed per-counterparty balance over
	// the user's direct (non-group) expenses, zero balances dropped, sorted
	// by amount descending.
	BalancesByCounterparty(ctx context.Context, userID string) ([]domain.CounterpartyBalance, error)

	// GroupBalances computes per-group net amounts and member-level
	// breakdowns over the user's group expenses, sorted by net amount
	// descending.
	GroupBalances(ctx context.Context, userID string) ([]domain.GroupBalance, error)

	// ConsolidatedBalances merges direct-counterparty and group member
	// balances into one amount per person, labeled with the primary currency
	// chosen by picker (nil selects the default policy).
	ConsolidatedBalances(ctx context.Context, userID string, picker PrimaryCurrencyPicker) ([]domain.CounterpartyBalance, error)
}
