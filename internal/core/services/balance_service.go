package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaab-app/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
)

// fallbackCurrency labels consolidated totals when a user has no direct
// balances to infer a primary currency from.
const fallbackCurrency = "INR"

// balanceService derives balances from the raw expense history. Every call
// recomputes from scratch; nothing is cached or persisted, so repeated calls
// over unchanged data always produce identical results.
type balanceService struct {
	BaseService
	expenseRepo portsrepo.ExpenseReader
	groupRepo   portsrepo.GroupReader
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(expenseRepo portsrepo.ExpenseReader, groupRepo portsrepo.GroupReader) portssvc.BalanceSvcFacade {
	return &balanceService{
		expenseRepo: expenseRepo,
		groupRepo:   groupRepo,
	}
}

// Ensure balanceService implements the portssvc.BalanceSvcFacade interface
var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// CalculateBalance computes the user's total owed, total owed-to and net
// balance across all expenses they are involved in.
//
// The totals sum raw amounts across expenses regardless of each expense's
// currency. Amounts are never converted; mixing currencies in one total is a
// known simplification carried over deliberately.
func (s *balanceService) CalculateBalance(ctx context.Context, userID string) (*domain.BalanceSummary, error) {
	expenses, err := s.expenseRepo.FindExpensesInvolvingUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch expenses for balance calculation", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	totalOwed := decimal.Zero
	totalOwedTo := decimal.Zero
	for _, exp := range expenses {
		net := exp.Net(userID)
		switch {
		case net.IsPositive():
			totalOwedTo = totalOwedTo.Add(net)
		case net.IsNegative():
			totalOwed = totalOwed.Add(net.Abs())
		}
	}

	totalOwed = totalOwed.Round(2)
	totalOwedTo = totalOwedTo.Round(2)
	return &domain.BalanceSummary{
		TotalOwed:   totalOwed,
		TotalOwedTo: totalOwedTo,
		NetBalance:  totalOwedTo.Sub(totalOwed),
	}, nil
}

// runningBalance accumulates one counterparty's unrounded signed amount and
// the currency of the latest expense that touched it (last-seen wins when a
// counterparty spans multiple currencies).
type runningBalance struct {
	amount   decimal.Decimal
	currency string
}

// distributeExpense attributes the user's surplus or deficit on one expense
// proportionally across the other parties, accumulating into balances.
//
// Overpaid: the surplus is split across the other participants in proportion
// to what each owes. Underpaid: the shortfall is owed to the other payers in
// proportion to what each paid. When the respective denominator is zero the
// expense distributes nothing and the balances are left untouched.
//
// This single routine serves both the direct-counterparty and the per-group
// breakdowns so the two can never diverge.
func distributeExpense(balances map[string]*runningBalance, exp domain.Expense, userID string) {
	net := exp.Net(userID)
	if net.IsZero() {
		return
	}

	add := func(otherID string, delta decimal.Decimal) {
		rb, ok := balances[otherID]
		if !ok {
			rb = &runningBalance{amount: decimal.Zero}
			balances[otherID] = rb
		}
		rb.amount = rb.amount.Add(delta)
		rb.currency = exp.CurrencyCode
	}

	if net.IsPositive() {
		totalOwedByOthers := decimal.Zero
		for _, p := range exp.Participants {
			if p.UserID != userID && p.AmountOwed.IsPositive() {
				totalOwedByOthers = totalOwedByOthers.Add(p.AmountOwed)
			}
		}
		if !totalOwedByOthers.IsPositive() {
			return
		}
		for _, p := range exp.Participants {
			if p.UserID == userID || !p.AmountOwed.IsPositive() {
				continue
			}
			add(p.UserID, net.Mul(p.AmountOwed).Div(totalOwedByOthers))
		}
		return
	}

	shortfall := net.Abs()
	totalPaidByOthers := decimal.Zero
	for _, p := range exp.Payers {
		if p.UserID != userID && p.AmountPaid.IsPositive() {
			totalPaidByOthers = totalPaidByOthers.Add(p.AmountPaid)
		}
	}
	if !totalPaidByOthers.IsPositive() {
		return
	}
	for _, p := range exp.Payers {
		if p.UserID == userID || !p.AmountPaid.IsPositive() {
			continue
		}
		add(p.UserID, shortfall.Mul(p.AmountPaid).Div(totalPaidByOthers).Neg())
	}
}

// collectBalances turns a running-balance map into a rounded slice with zero
// entries dropped, sorted by amount descending. Equal amounts tie-break on
// user id so repeated runs produce identical output.
func collectBalances(balances map[string]*runningBalance) []domain.CounterpartyBalance {
	out := make([]domain.CounterpartyBalance, 0, len(balances))
	for id, rb := range balances {
		amount := rb.amount.Round(2)
		if amount.IsZero() {
			continue
		}
		out = append(out, domain.CounterpartyBalance{
			UserID:       id,
			Amount:       amount,
			CurrencyCode: rb.currency,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// BalancesByCounterparty computes a signed per-counterparty balance over the
// user's direct (non-group) expenses.
func (s *balanceService) BalancesByCounterparty(ctx context.Context, userID string) ([]domain.CounterpartyBalance, error) {
	expenses, err := s.expenseRepo.FindExpensesInvolvingUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch expenses for counterparty balances", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	balances := make(map[string]*runningBalance)
	for _, exp := range expenses {
		if exp.IsGroupExpense() {
			continue
		}
		distributeExpense(balances, exp, userID)
	}

	return collectBalances(balances), nil
}

// groupAccumulator gathers one group's running state while iterating the
// user's group expenses.
type groupAccumulator struct {
	net      decimal.Decimal
	currency string
	members  map[string]*runningBalance
}

// GroupBalances computes per-group net amounts and member-level breakdowns
// over the user's group expenses. An expense carrying several group scopes is
// processed once per group.
func (s *balanceService) GroupBalances(ctx context.Context, userID string) ([]domain.GroupBalance, error) {
	expenses, err := s.expenseRepo.FindExpensesInvolvingUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch expenses for group balances", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	accs := make(map[string]*groupAccumulator)
	for _, exp := range expenses {
		for _, groupID := range exp.GroupIDs() {
			acc, ok := accs[groupID]
			if !ok {
				acc = &groupAccumulator{
					net:     decimal.Zero,
					members: make(map[string]*runningBalance),
				}
				accs[groupID] = acc
			}
			acc.net = acc.net.Add(exp.Net(userID))
			acc.currency = exp.CurrencyCode
			distributeExpense(acc.members, exp, userID)
		}
	}

	groupIDs := make([]string, 0, len(accs))
	for id := range accs {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)

	results := make([]domain.GroupBalance, 0, len(accs))
	for _, groupID := range groupIDs {
		acc := accs[groupID]
		netAmount := acc.net.Round(2)
		memberBalances := collectBalances(acc.members)

		// A group with nothing outstanding in either view carries no signal.
		if netAmount.IsZero() && len(memberBalances) == 0 {
			continue
		}

		members := make([]domain.MemberBalance, len(memberBalances))
		for i, mb := range memberBalances {
			members[i] = domain.MemberBalance{UserID: mb.UserID, Amount: mb.Amount}
		}

		gb := domain.GroupBalance{
			GroupID:        groupID,
			NetAmount:      netAmount,
			CurrencyCode:   acc.currency,
			MemberBalances: members,
		}

		// A failed group lookup degrades to a placeholder entry; it never
		// fails the whole computation.
		group, err := s.groupRepo.FindGroupByID(ctx, groupID)
		if err != nil {
			s.LogDebug(ctx, "Group lookup failed, using placeholder", slog.String("group_id", groupID), slog.String("error", err.Error()))
			gb.GroupName = "Unknown group"
			gb.GroupIcon = nil
		} else {
			gb.GroupName = group.Name
			icon := group.Icon
			gb.GroupIcon = &icon
		}

		results = append(results, gb)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].NetAmount.Equal(results[j].NetAmount) {
			return results[i].NetAmount.GreaterThan(results[j].NetAmount)
		}
		return results[i].GroupID < results[j].GroupID
	})
	return results, nil
}

// DefaultPrimaryCurrency picks the most frequently occurring currency across
// the given balances; ties resolve to the currency seen first. It falls back
// to a constant when there are no balances to inspect.
func DefaultPrimaryCurrency(balances []domain.CounterpartyBalance) string {
	if len(balances) == 0 {
		return fallbackCurrency
	}
	counts := make(map[string]int, len(balances))
	max := 0
	for _, b := range balances {
		counts[b.CurrencyCode]++
		if counts[b.CurrencyCode] > max {
			max = counts[b.CurrencyCode]
		}
	}
	for _, b := range balances {
		if counts[b.CurrencyCode] == max {
			return b.CurrencyCode
		}
	}
	return fallbackCurrency
}

// ConsolidatedBalances merges direct-counterparty and group member balances
// into one amount per person. Direct debts and group debts with the same
// person are the same liability; the merged view answers how much two people
// owe each other in total, at the cost of the group/direct distinction.
// The merged amounts are labeled with the primary currency chosen by picker
// (nil selects DefaultPrimaryCurrency).
func (s *balanceService) ConsolidatedBalances(ctx context.Context, userID string, picker portssvc.PrimaryCurrencyPicker) ([]domain.CounterpartyBalance, error) {
	direct, err := s.BalancesByCounterparty(ctx, userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.GroupBalances(ctx, userID)
	if err != nil {
		return nil, err
	}

	if picker == nil {
		picker = DefaultPrimaryCurrency
	}
	primaryCurrency := picker(direct)

	merged := make(map[string]*runningBalance)
	for _, b := range direct {
		merged[b.UserID] = &runningBalance{amount: b.Amount, currency: primaryCurrency}
	}
	for _, gb := range groups {
		for _, mb := range gb.MemberBalances {
			rb, ok := merged[mb.UserID]
			if !ok {
				rb = &runningBalance{amount: decimal.Zero, currency: primaryCurrency}
				merged[mb.UserID] = rb
			}
			rb.amount = rb.amount.Add(mb.Amount)
		}
	}

	return collectBalances(merged), nil
}
