package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaab-app/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
	"github.com/hisaab-app/hisaab_backend/internal/utils/split"
)

// payerTolerance allows sub-cent drift between the payer sum and the
// expense amount at creation time. Reads stay tolerant regardless.
var payerTolerance = decimal.NewFromFloat(0.01)

// expenseService records and reads shared expenses.
type expenseService struct {
	BaseService
	expenseRepo portsrepo.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepository) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
	}
}

// Ensure expenseService implements the portssvc.ExpenseSvcFacade interface
var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense validates and persists a new expense. Participant shares are
// derived from the split type when any amountOwed is omitted; payer amounts
// must sum to the expense amount.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}

	seen := make(map[string]bool, len(req.Participants))
	for _, p := range req.Participants {
		if seen[p.UserID] {
			return nil, fmt.Errorf("%w: duplicate participant %s", apperrors.ErrValidation, p.UserID)
		}
		seen[p.UserID] = true
	}

	participants, err := s.resolveParticipants(req)
	if err != nil {
		return nil, err
	}

	paidTotal := decimal.Zero
	payers := make([]domain.ExpensePayer, len(req.Payers))
	seenPayers := make(map[string]bool, len(req.Payers))
	for i, p := range req.Payers {
		if seenPayers[p.UserID] {
			return nil, fmt.Errorf("%w: duplicate payer %s", apperrors.ErrValidation, p.UserID)
		}
		seenPayers[p.UserID] = true
		if p.AmountPaid.IsNegative() {
			return nil, fmt.Errorf("%w: payer amount must not be negative", apperrors.ErrValidation)
		}
		payers[i] = domain.ExpensePayer{UserID: p.UserID, AmountPaid: p.AmountPaid}
		paidTotal = paidTotal.Add(p.AmountPaid)
	}
	if paidTotal.Sub(req.Amount).Abs().GreaterThan(payerTolerance) {
		return nil, fmt.Errorf("%w: payer amounts sum to %s, expense amount is %s", apperrors.ErrValidation, paidTotal.String(), req.Amount.String())
	}

	scopes := make([]domain.ExpenseScope, len(req.Scopes))
	for i, sc := range req.Scopes {
		scopes[i] = domain.ExpenseScope{Type: domain.ScopeType(sc.Type), ID: sc.ID}
	}

	expense := domain.Expense{
		ExpenseID:    uuid.NewString(),
		Amount:       req.Amount,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		CreatedBy:    creatorUserID,
		SplitType:    domain.SplitType(req.SplitType),
		Scopes:       scopes,
		Participants: participants,
		Payers:       payers,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("currency", req.CurrencyCode))
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	s.LogInfo(ctx, "Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("split_type", req.SplitType),
		slog.Int("participant_count", len(participants)))
	return &expense, nil
}

// resolveParticipants turns the request participants into domain participants,
// computing the owed amounts through the split strategy when they are not all
// given explicitly.
func (s *expenseService) resolveParticipants(req dto.CreateExpenseRequest) ([]domain.ExpenseParticipant, error) {
	splitType := domain.SplitType(req.SplitType)

	allExplicit := true
	for _, p := range req.Participants {
		if p.AmountOwed == nil {
			allExplicit = false
			break
		}
	}

	// Explicit amounts are taken as-is for equal and percentage splits; the
	// share strategy still validates that they sum to the total.
	if allExplicit && splitType != domain.SplitShare {
		participants := make([]domain.ExpenseParticipant, len(req.Participants))
		for i, p := range req.Participants {
			participants[i] = domain.ExpenseParticipant{
				UserID:     p.UserID,
				AmountOwed: *p.AmountOwed,
				Percentage: p.Percentage,
			}
		}
		return participants, nil
	}

	strategy, err := split.ForType(splitType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	inputs := make([]split.Input, len(req.Participants))
	for i, p := range req.Participants {
		inputs[i] = split.Input{
			UserID:     p.UserID,
			Percentage: p.Percentage,
			Amount:     p.AmountOwed,
		}
	}

	outputs, err := strategy.Calculate(req.Amount, inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	participants := make([]domain.ExpenseParticipant, len(outputs))
	for i, out := range outputs {
		participants[i] = domain.ExpenseParticipant{
			UserID:     out.UserID,
			AmountOwed: out.AmountOwed,
			Percentage: req.Participants[i].Percentage,
		}
	}
	return participants, nil
}

// GetExpenseByID retrieves a single expense.
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesForUser retrieves every expense the user is involved in,
// most recent first. Expenses without a timestamp sort last.
func (s *expenseService) ListExpensesForUser(ctx context.Context, userID string) ([]domain.Expense, error) {
	expenses, err := s.expenseRepo.FindExpensesInvolvingUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses", slog.String("user_id", userID))
		return nil, err
	}

	// Zero timestamps compare smallest, which puts them last in this order.
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses, nil
}
