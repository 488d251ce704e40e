package domain

import "github.com/shopspring/decimal"

// BalanceSummary aggregates a user's position across all their expenses.
// The three totals are currency-blind sums over each expense's own currency;
// amounts are never converted.
type BalanceSummary struct {
	TotalOwed   decimal.Decimal `json:"totalOwed"`   // total the user owes others
	TotalOwedTo decimal.Decimal `json:"totalOwedTo"` // total others owe the user
	NetBalance  decimal.Decimal `json:"netBalance"`  // TotalOwedTo - TotalOwed
}

// CounterpartyBalance is the signed balance between the current user and one
// other user, derived from direct (non-group) expenses only.
// Positive: the counterparty owes the current user. Negative: the current
// user owes the counterparty.
type CounterpartyBalance struct {
	UserID       string          `json:"userID"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// MemberBalance is the signed balance with one group member, scoped to a
// single group's expenses.
type MemberBalance struct {
	UserID string          `json:"userID"`
	Amount decimal.Decimal `json:"amount"`
}

// GroupBalance summarizes a user's position within one group: the net amount
// across the group's expenses plus a per-member breakdown.
type GroupBalance struct {
	GroupID        string          `json:"groupID"`
	GroupName      string          `json:"groupName"`
	GroupIcon      *string         `json:"groupIcon"` // nil when the group row is missing
	NetAmount      decimal.Decimal `json:"netAmount"`
	CurrencyCode   string          `json:"currencyCode"`
	MemberBalances []MemberBalance `json:"memberBalances"`
}
