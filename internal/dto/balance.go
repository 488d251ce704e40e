package dto

import (
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSummaryResponse reports the user's aggregate position.
type BalanceSummaryResponse struct {
	TotalOwed   decimal.Decimal `json:"totalOwed"`
	TotalOwedTo decimal.Decimal `json:"totalOwedTo"`
	NetBalance  decimal.Decimal `json:"netBalance"`
}

// CounterpartyBalanceResponse is one signed balance with another user.
type CounterpartyBalanceResponse struct {
	UserID       string          `json:"userID"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// MemberBalanceResponse is one signed balance with a group member.
type MemberBalanceResponse struct {
	UserID string          `json:"userID"`
	Amount decimal.Decimal `json:"amount"`
}

// GroupBalanceResponse summarizes the user's position within one group.
type GroupBalanceResponse struct {
	GroupID        string                  `json:"groupID"`
	GroupName      string                  `json:"groupName"`
	GroupIcon      *string                 `json:"groupIcon"`
	NetAmount      decimal.Decimal         `json:"netAmount"`
	CurrencyCode   string                  `json:"currencyCode"`
	MemberBalances []MemberBalanceResponse `json:"memberBalances"`
}

// ToBalanceSummaryResponse converts a domain.BalanceSummary.
func ToBalanceSummaryResponse(s *domain.BalanceSummary) BalanceSummaryResponse {
	return BalanceSummaryResponse{
		TotalOwed:   s.TotalOwed,
		TotalOwedTo: s.TotalOwedTo,
		NetBalance:  s.NetBalance,
	}
}

// ToCounterpartyBalanceResponses converts a slice of domain.CounterpartyBalance.
func ToCounterpartyBalanceResponses(balances []domain.CounterpartyBalance) []CounterpartyBalanceResponse {
	responses := make([]CounterpartyBalanceResponse, len(balances))
	for i, b := range balances {
		responses[i] = CounterpartyBalanceResponse{
			UserID:       b.UserID,
			Amount:       b.Amount,
			CurrencyCode: b.CurrencyCode,
		}
	}
	return responses
}

// ToGroupBalanceResponses converts a slice of domain.GroupBalance.
func ToGroupBalanceResponses(balances []domain.GroupBalance) []GroupBalanceResponse {
	responses := make([]GroupBalanceResponse, len(balances))
	for i, gb := range balances {
		members := make([]MemberBalanceResponse, len(gb.MemberBalances))
		for j, mb := range gb.MemberBalances {
			members[j] = MemberBalanceResponse{UserID: mb.UserID, Amount: mb.Amount}
		}
		responses[i] = GroupBalanceResponse{
			GroupID:        gb.GroupID,
			GroupName:      gb.GroupName,
			GroupIcon:      gb.GroupIcon,
			NetAmount:      gb.NetAmount,
			CurrencyCode:   gb.CurrencyCode,
			MemberBalances: members,
		}
	}
	return responses
}
