package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
	"github.com/hisaab-app/hisaab_backend/internal/core/services"
)

// --- Mock ExpenseRepository (based on BalanceService/ExpenseService usage) ---
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	var expense *domain.Expense
	if args.Get(0) != nil {
		expense = args.Get(0).(*domain.Expense)
	}
	return expense, args.Error(1)
}

func (m *MockExpenseRepository) FindExpensesInvolvingUser(ctx context.Context, userID string) ([]domain.Expense, error) {
	args := m.Called(ctx, userID)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	return expenses, args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

// --- Mock GroupRepository (based on BalanceService/GroupService usage) ---
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	args := m.Called(ctx, groupID)
	var group *domain.Group
	if args.Get(0) != nil {
		group = args.Get(0).(*domain.Group)
	}
	return group, args.Error(1)
}

func (m *MockGroupRepository) FindGroupsByMember(ctx context.Context, userID string) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	var groups []domain.Group
	if args.Get(0) != nil {
		groups = args.Get(0).([]domain.Group)
	}
	return groups, args.Error(1)
}

func (m *MockGroupRepository) SaveGroup(ctx context.Context, group domain.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) AddGroupMember(ctx context.Context, groupID string, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

// --- Test helpers ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// directExpense builds a non-group expense where payers and participants are
// given as userID -> amount maps rendered into deterministic order by the
// caller passing slices.
func directExpense(id string, currency string, payers []domain.ExpensePayer, participants []domain.ExpenseParticipant) domain.Expense {
	scopes := make([]domain.ExpenseScope, 0, len(participants))
	for _, p := range participants {
		scopes = append(scopes, domain.ExpenseScope{Type: domain.ScopeUser, ID: p.UserID})
	}
	total := decimal.Zero
	for _, p := range payers {
		total = total.Add(p.AmountPaid)
	}
	return domain.Expense{
		ExpenseID:    id,
		Amount:       total,
		CurrencyCode: currency,
		SplitType:    domain.SplitEqual,
		Scopes:       scopes,
		Participants: participants,
		Payers:       payers,
	}
}

func groupExpense(id string, groupID string, currency string, payers []domain.ExpensePayer, participants []domain.ExpenseParticipant) domain.Expense {
	e := directExpense(id, currency, payers, participants)
	e.Scopes = []domain.ExpenseScope{{Type: domain.ScopeGroup, ID: groupID}}
	return e
}

func payer(userID string, amount string) domain.ExpensePayer {
	return domain.ExpensePayer{UserID: userID, AmountPaid: dec(amount)}
}

func owes(userID string, amount string) domain.ExpenseParticipant {
	return domain.ExpenseParticipant{UserID: userID, AmountOwed: dec(amount)}
}

// --- Test Suite ---
type BalanceServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockGroupRepo   *MockGroupRepository
	service         portssvc.BalanceSvcFacade
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockGroupRepo = new(MockGroupRepository)
	suite.service = services.NewBalanceService(suite.mockExpenseRepo, suite.mockGroupRepo)
}

// --- CalculateBalance Tests ---

func (suite *BalanceServiceTestSuite) TestCalculateBalance_MixedPositions() {
	ctx := context.Background()
	userID := "user-1"

	expenses := []domain.Expense{
		// user-1 paid 90, owes 30: others owe them 60
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "90")},
			[]domain.ExpenseParticipant{owes(userID, "30"), owes("alice", "30"), owes("bob", "30")}),
		// user-1 paid nothing, owes 20
		directExpense("e2", "USD",
			[]domain.ExpensePayer{payer("alice", "40")},
			[]domain.ExpenseParticipant{owes(userID, "20"), owes("alice", "20")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	summary, err := suite.service.CalculateBalance(ctx, userID)

	suite.Require().NoError(err)
	suite.True(dec("20").Equal(summary.TotalOwed), "TotalOwed = %s", summary.TotalOwed)
	suite.True(dec("60").Equal(summary.TotalOwedTo), "TotalOwedTo = %s", summary.TotalOwedTo)
	suite.True(dec("40").Equal(summary.NetBalance), "NetBalance = %s", summary.NetBalance)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestCalculateBalance_CurrencyBlindTotals() {
	ctx := context.Background()
	userID := "user-1"

	// One USD and one EUR credit; the summary sums raw amounts across both.
	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "50")},
			[]domain.ExpenseParticipant{owes(userID, "25"), owes("alice", "25")}),
		directExpense("e2", "EUR",
			[]domain.ExpensePayer{payer(userID, "10")},
			[]domain.ExpenseParticipant{owes(userID, "5"), owes("alice", "5")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	summary, err := suite.service.CalculateBalance(ctx, userID)

	suite.Require().NoError(err)
	suite.True(dec("30").Equal(summary.TotalOwedTo), "TotalOwedTo = %s", summary.TotalOwedTo)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestCalculateBalance_SettledExpenseContributesNothing() {
	ctx := context.Background()
	userID := "user-1"

	// paid == owed: the expense must not move either total.
	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "30"), payer("alice", "30")},
			[]domain.ExpenseParticipant{owes(userID, "30"), owes("alice", "30")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	summary, err := suite.service.CalculateBalance(ctx, userID)

	suite.Require().NoError(err)
	suite.True(summary.TotalOwed.IsZero())
	suite.True(summary.TotalOwedTo.IsZero())
	suite.True(summary.NetBalance.IsZero())
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestCalculateBalance_DataUnavailable() {
	ctx := context.Background()
	userID := "user-1"

	repoErr := fmt.Errorf("%w: participants query failed", apperrors.ErrDataUnavailable)
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(nil, repoErr).Once()

	summary, err := suite.service.CalculateBalance(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrDataUnavailable)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

// --- BalancesByCounterparty Tests ---

func (suite *BalanceServiceTestSuite) TestBalancesByCounterparty_EqualSplit() {
	ctx := context.Background()
	userID := "user-1"

	// user-1 fronted 90 for a three-way equal split.
	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "90")},
			[]domain.ExpenseParticipant{owes(userID, "30"), owes("alice", "30"), owes("bob", "30")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	balances, err := suite.service.BalancesByCounterparty(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 2)
	suite.Equal("alice", balances[0].UserID)
	suite.True(dec("30").Equal(balances[0].Amount))
	suite.Equal("USD", balances[0].CurrencyCode)
	suite.Equal("bob", balances[1].UserID)
	suite.True(dec("30").Equal(balances[1].Amount))
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestBalancesByCounterparty_PairIsZeroSum() {
	ctx := context.Background()

	// The same expense viewed from both sides must produce opposite amounts.
	build := func() []domain.Expense {
		return []domain.Expense{
			directExpense("e1", "USD",
				[]domain.ExpensePayer{payer("user-1", "40")},
				[]domain.ExpenseParticipant{owes("user-1", "20"), owes("user-2", "20")}),
		}
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, "user-1").Return(build(), nil).Once()
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, "user-2").Return(build(), nil).Once()

	fromOne, err := suite.service.BalancesByCounterparty(ctx, "user-1")
	suite.Require().NoError(err)
	fromTwo, err := suite.service.BalancesByCounterparty(ctx, "user-2")
	suite.Require().NoError(err)

	suite.Require().Len(fromOne, 1)
	suite.Require().Len(fromTwo, 1)
	suite.Equal("user-2", fromOne[0].UserID)
	suite.Equal("user-1", fromTwo[0].UserID)
	suite.True(fromOne[0].Amount.Equal(fromTwo[0].Amount.Neg()),
		"expected %s and %s to be opposite", fromOne[0].Amount, fromTwo[0].Amount)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestBalancesByCounterparty_ProportionalDistribution() {
	ctx := context.Background()
	userID := "user-1"

	// user-1 overpaid 100; alice owes 70 and bob 30 of that surplus.
	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "100")},
			[]domain.ExpenseParticipant{owes("alice", "70"), owes("bob", "30")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	balances, err := suite.service.BalancesByCounterparty(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 2)
	suite.Equal("alice", balances[0].UserID)
	suite.True(dec("70").Equal(balances[0].Amount))
	suite.Equal("bob", balances[1].UserID)
	suite.True(dec("30").Equal(balances[1].Amount))
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestBalancesByCounterparty_DeficitOwedToPayers() {
	ctx := context.Background()
	userID := "user-1"

	// user-1 owes 60 and paid nothing; alice fronted 75% and bob 25%.
	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer("alice", "90"), payer("bob", "30")},
			[]domain.ExpenseParticipant{owes(userID, "60"), owes("alice", "40"), owes("bob", "20")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	balances, err := suite.service.BalancesByCounterparty(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 2)
	// Sorted descending: the smaller (less negative) debt first.
	suite.Equal("bob", balances[0].UserID)
	suite.True(dec("-15").Equal(balances[0].Amount), "bob = %s", balances[0].Amount)
	suite.Equal("alice", balances[1].UserID)
	suite.True(dec("-45").Equal(balances[1].Amount), "alice = %s", balances[1].Amount)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestBalancesByCounterparty_ZeroDenominatorDistributesNothing() {
	ctx := context.Background()
	userID := "user-1"

	// user-1 overpaid but no other participant owes anything; nothing to
	// attribute, the expense is skipped rather than divided by zero.
	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "50")},
			[]domain.ExpenseParticipant{owes(userID, "0"), owes("alice", "0")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	balances, err := suite.service.BalancesByCounterparty(ctx, userID)

	suite.Require().NoError(err)
	suite.Empty(balances)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestBalancesByCounterparty_GroupExpensesExcluded() {
	ctx := context.Background()
	userID := "user-1"

	expenses := []domain.Expense{
		groupExpense("e1", "group-1", "USD",
			[]domain.ExpensePayer{payer(userID, "90")},
			[]domain.ExpenseParticipant{owes(userID, "30"), owes("alice", "30"), owes("bob", "30")}),
		directExpense("e2", "USD",
			[]domain.ExpensePayer{payer(userID, "20")},
			[]domain.ExpenseParticipant{owes(userID, "10"), owes("alice", "10")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	balances, err := suite.service.BalancesByCounterparty(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 1)
	suite.Equal("alice", balances[0].UserID)
	suite.True(dec("10").Equal(balances[0].Amount), "only the direct expense counts, got %s", balances[0].Amount)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestBalancesByCounterparty_SettledCounterpartyDropped() {
	ctx := context.Background()
	userID := "user-1"

	// Two expenses that cancel out against alice exactly.
	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "40")},
			[]domain.ExpenseParticipant{owes(userID, "20"), owes("alice", "20")}),
		directExpense("e2", "USD",
			[]domain.ExpensePayer{payer("alice", "40")},
			[]domain.ExpenseParticipant{owes(userID, "20"), owes("alice", "20")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	balances, err := suite.service.BalancesByCounterparty(ctx, userID)

	suite.Require().NoError(err)
	suite.Empty(balances)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestBalancesByCounterparty_LastSeenCurrencyWins() {
	ctx := context.Background()
	userID := "user-1"

	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "20")},
			[]domain.ExpenseParticipant{owes(userID, "10"), owes("alice", "10")}),
		directExpense("e2", "EUR",
			[]domain.ExpensePayer{payer(userID, "20")},
			[]domain.ExpenseParticipant{owes(userID, "10"), owes("alice", "10")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	balances, err := suite.service.BalancesByCounterparty(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 1)
	suite.True(dec("20").Equal(balances[0].Amount))
	suite.Equal("EUR", balances[0].CurrencyCode)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestBalancesByCounterparty_RoundingStable() {
	ctx := context.Background()
	userID := "user-1"

	// 100 split three ways leaves repeating thirds; output rounds to cents.
	third := dec("100").Div(dec("3"))
	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "100")},
			[]domain.ExpenseParticipant{
				{UserID: userID, AmountOwed: third},
				{UserID: "alice", AmountOwed: third},
				{UserID: "bob", AmountOwed: third},
			}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	balances, err := suite.service.BalancesByCounterparty(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 2)
	for _, b := range balances {
		suite.True(dec("33.33").Equal(b.Amount), "%s = %s", b.UserID, b.Amount)
		suite.True(b.Amount.Exponent() >= -2, "amount must be rounded to cents")
	}
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestBalancesByCounterparty_Idempotent() {
	ctx := context.Background()
	userID := "user-1"

	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "90")},
			[]domain.ExpenseParticipant{owes(userID, "30"), owes("alice", "30"), owes("bob", "30")}),
		directExpense("e2", "USD",
			[]domain.ExpensePayer{payer("bob", "60")},
			[]domain.ExpenseParticipant{owes(userID, "30"), owes("bob", "30")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Twice()

	first, err := suite.service.BalancesByCounterparty(ctx, userID)
	suite.Require().NoError(err)
	second, err := suite.service.BalancesByCounterparty(ctx, userID)
	suite.Require().NoError(err)

	suite.Require().Equal(len(first), len(second))
	for i := range first {
		suite.Equal(first[i].UserID, second[i].UserID)
		suite.True(first[i].Amount.Equal(second[i].Amount))
		suite.Equal(first[i].CurrencyCode, second[i].CurrencyCode)
	}
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

// --- GroupBalances Tests ---

func (suite *BalanceServiceTestSuite) TestGroupBalances_NetAndMemberBreakdown() {
	ctx := context.Background()
	userID := "user-1"

	expenses := []domain.Expense{
		groupExpense("e1", "group-1", "USD",
			[]domain.ExpensePayer{payer(userID, "90")},
			[]domain.ExpenseParticipant{owes(userID, "30"), owes("alice", "30"), owes("bob", "30")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()
	icon := "🏖️"
	suite.mockGroupRepo.On("FindGroupByID", ctx, "group-1").Return(&domain.Group{
		GroupID: "group-1",
		Name:    "Goa Trip",
		Icon:    icon,
		Members: []string{userID, "alice", "bob"},
	}, nil).Once()

	groups, err := suite.service.GroupBalances(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(groups, 1)
	suite.Equal("group-1", groups[0].GroupID)
	suite.Equal("Goa Trip", groups[0].GroupName)
	suite.Require().NotNil(groups[0].GroupIcon)
	suite.Equal(icon, *groups[0].GroupIcon)
	suite.True(dec("60").Equal(groups[0].NetAmount), "net = %s", groups[0].NetAmount)
	suite.Equal("USD", groups[0].CurrencyCode)
	suite.Require().Len(groups[0].MemberBalances, 2)
	suite.Equal("alice", groups[0].MemberBalances[0].UserID)
	suite.True(dec("30").Equal(groups[0].MemberBalances[0].Amount))
	suite.Equal("bob", groups[0].MemberBalances[1].UserID)
	suite.True(dec("30").Equal(groups[0].MemberBalances[1].Amount))
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestGroupBalances_MissingGroupUsesPlaceholder() {
	ctx := context.Background()
	userID := "user-1"

	expenses := []domain.Expense{
		groupExpense("e1", "group-gone", "USD",
			[]domain.ExpensePayer{payer(userID, "40")},
			[]domain.ExpenseParticipant{owes(userID, "20"), owes("alice", "20")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, "group-gone").Return(nil, apperrors.ErrNotFound).Once()

	groups, err := suite.service.GroupBalances(ctx, userID)

	suite.Require().NoError(err, "a failed group lookup must not fail the computation")
	suite.Require().Len(groups, 1)
	suite.Equal("Unknown group", groups[0].GroupName)
	suite.Nil(groups[0].GroupIcon)
	suite.True(dec("20").Equal(groups[0].NetAmount))
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestGroupBalances_SettledGroupDropped() {
	ctx := context.Background()
	userID := "user-1"

	// Both group expenses cancel exactly: zero net and no member balances.
	expenses := []domain.Expense{
		groupExpense("e1", "group-1", "USD",
			[]domain.ExpensePayer{payer(userID, "40")},
			[]domain.ExpenseParticipant{owes(userID, "20"), owes("alice", "20")}),
		groupExpense("e2", "group-1", "USD",
			[]domain.ExpensePayer{payer("alice", "40")},
			[]domain.ExpenseParticipant{owes(userID, "20"), owes("alice", "20")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()

	groups, err := suite.service.GroupBalances(ctx, userID)

	suite.Require().NoError(err)
	suite.Empty(groups)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestGroupBalances_SortedByNetDescending() {
	ctx := context.Background()
	userID := "user-1"

	expenses := []domain.Expense{
		groupExpense("e1", "group-small", "USD",
			[]domain.ExpensePayer{payer(userID, "20")},
			[]domain.ExpenseParticipant{owes(userID, "10"), owes("alice", "10")}),
		groupExpense("e2", "group-big", "USD",
			[]domain.ExpensePayer{payer(userID, "100")},
			[]domain.ExpenseParticipant{owes(userID, "50"), owes("bob", "50")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound).Twice()

	groups, err := suite.service.GroupBalances(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(groups, 2)
	suite.Equal("group-big", groups[0].GroupID)
	suite.True(dec("50").Equal(groups[0].NetAmount))
	suite.Equal("group-small", groups[1].GroupID)
	suite.True(dec("10").Equal(groups[1].NetAmount))
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestGroupBalances_MultipleGroupScopesProcessedIndependently() {
	ctx := context.Background()
	userID := "user-1"

	// One expense tagged with two groups contributes its full effect to each.
	e := groupExpense("e1", "group-1", "USD",
		[]domain.ExpensePayer{payer(userID, "40")},
		[]domain.ExpenseParticipant{owes(userID, "20"), owes("alice", "20")})
	e.Scopes = append(e.Scopes, domain.ExpenseScope{Type: domain.ScopeGroup, ID: "group-2"})

	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return([]domain.Expense{e}, nil).Once()
	suite.mockGroupRepo.On("FindGroupByID", ctx, mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound).Twice()

	groups, err := suite.service.GroupBalances(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(groups, 2)
	for _, gb := range groups {
		suite.True(dec("20").Equal(gb.NetAmount), "%s net = %s", gb.GroupID, gb.NetAmount)
	}
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

// --- ConsolidatedBalances Tests ---

func (suite *BalanceServiceTestSuite) TestConsolidatedBalances_MergesDirectAndGroup() {
	ctx := context.Background()
	userID := "user-1"

	// user-1 owes alice 20 directly and is owed 50 by alice inside a group:
	// consolidation nets out to alice owing 30.
	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer("alice", "40")},
			[]domain.ExpenseParticipant{owes(userID, "20"), owes("alice", "20")}),
		groupExpense("e2", "group-1", "USD",
			[]domain.ExpensePayer{payer(userID, "100")},
			[]domain.ExpenseParticipant{owes(userID, "50"), owes("alice", "50")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Twice()
	suite.mockGroupRepo.On("FindGroupByID", ctx, "group-1").Return(nil, apperrors.ErrNotFound).Once()

	balances, err := suite.service.ConsolidatedBalances(ctx, userID, nil)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 1)
	suite.Equal("alice", balances[0].UserID)
	suite.True(dec("30").Equal(balances[0].Amount), "consolidated = %s", balances[0].Amount)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
	suite.mockGroupRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestConsolidatedBalances_LabelsWithPrimaryCurrency() {
	ctx := context.Background()
	userID := "user-1"

	// Two USD direct balances and one EUR: USD is the most frequent currency
	// and labels every consolidated entry.
	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "20")},
			[]domain.ExpenseParticipant{owes(userID, "10"), owes("alice", "10")}),
		directExpense("e2", "USD",
			[]domain.ExpensePayer{payer(userID, "20")},
			[]domain.ExpenseParticipant{owes(userID, "10"), owes("bob", "10")}),
		directExpense("e3", "EUR",
			[]domain.ExpensePayer{payer(userID, "20")},
			[]domain.ExpenseParticipant{owes(userID, "10"), owes("carol", "10")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Twice()

	balances, err := suite.service.ConsolidatedBalances(ctx, userID, nil)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 3)
	for _, b := range balances {
		suite.Equal("USD", b.CurrencyCode, "entry for %s", b.UserID)
	}
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestConsolidatedBalances_CustomPicker() {
	ctx := context.Background()
	userID := "user-1"

	expenses := []domain.Expense{
		directExpense("e1", "USD",
			[]domain.ExpensePayer{payer(userID, "20")},
			[]domain.ExpenseParticipant{owes(userID, "10"), owes("alice", "10")}),
	}
	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return(expenses, nil).Twice()

	picker := func([]domain.CounterpartyBalance) string { return "GBP" }
	balances, err := suite.service.ConsolidatedBalances(ctx, userID, picker)

	suite.Require().NoError(err)
	suite.Require().Len(balances, 1)
	suite.Equal("GBP", balances[0].CurrencyCode)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestConsolidatedBalances_NoBalances() {
	ctx := context.Background()
	userID := "user-1"

	suite.mockExpenseRepo.On("FindExpensesInvolvingUser", ctx, userID).Return([]domain.Expense{}, nil).Twice()

	balances, err := suite.service.ConsolidatedBalances(ctx, userID, nil)

	suite.Require().NoError(err)
	suite.Empty(balances)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

// --- DefaultPrimaryCurrency Tests ---

func (suite *BalanceServiceTestSuite) TestDefaultPrimaryCurrency() {
	suite.Equal("INR", services.DefaultPrimaryCurrency(nil))

	balances := []domain.CounterpartyBalance{
		{UserID: "a", CurrencyCode: "EUR"},
		{UserID: "b", CurrencyCode: "USD"},
		{UserID: "c", CurrencyCode: "USD"},
	}
	suite.Equal("USD", services.DefaultPrimaryCurrency(balances))

	// Ties resolve to the currency seen first.
	tied := []domain.CounterpartyBalance{
		{UserID: "a", CurrencyCode: "EUR"},
		{UserID: "b", CurrencyCode: "USD"},
	}
	suite.Equal("EUR", services.DefaultPrimaryCurrency(tied))

	// First-seen wins even when a later currency reaches the tied count
	// earlier in the scan.
	interleaved := []domain.CounterpartyBalance{
		{UserID: "a", CurrencyCode: "USD"},
		{UserID: "b", CurrencyCode: "EUR"},
		{UserID: "c", CurrencyCode: "EUR"},
		{UserID: "d", CurrencyCode: "USD"},
	}
	suite.Equal("USD", services.DefaultPrimaryCurrency(interleaved))
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
