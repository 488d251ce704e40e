package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaab-app/hisaab_backend/internal/core/ports/repositories"
	"github.com/hisaab-app/hisaab_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(db *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &PgxExpenseRepository{BaseRepository{Pool: db}}
}

// Ensure PgxExpenseRepository implements portsrepo.ExpenseRepository
var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

// SaveExpense persists an expense with its scopes, participants and payers in
// one transaction. Expenses are immutable, so there is no upsert.
func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // rollback after commit is a no-op

	expenseQuery := `
        INSERT INTO expenses (expense_id, amount, description, currency_code, created_by, split_type, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err = tx.Exec(ctx, expenseQuery,
		expense.ExpenseID,
		expense.Amount,
		expense.Description,
		expense.CurrencyCode,
		expense.CreatedBy,
		expense.SplitType,
		expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}

	scopeQuery := `INSERT INTO expense_scopes (expense_id, scope_type, scope_id) VALUES ($1, $2, $3);`
	for _, s := range expense.Scopes {
		if _, err := tx.Exec(ctx, scopeQuery, expense.ExpenseID, string(s.Type), s.ID); err != nil {
			return fmt.Errorf("failed to save expense scope: %w", err)
		}
	}

	participantQuery := `INSERT INTO expense_participants (expense_id, user_id, amount_owed, percentage) VALUES ($1, $2, $3, $4);`
	for _, p := range expense.Participants {
		if _, err := tx.Exec(ctx, participantQuery, expense.ExpenseID, p.UserID, p.AmountOwed, p.Percentage); err != nil {
			return fmt.Errorf("failed to save expense participant %s: %w", p.UserID, err)
		}
	}

	payerQuery := `INSERT INTO expense_payers (expense_id, user_id, amount_paid) VALUES ($1, $2, $3);`
	for _, p := range expense.Payers {
		if _, err := tx.Exec(ctx, payerQuery, expense.ExpenseID, p.UserID, p.AmountPaid); err != nil {
			return fmt.Errorf("failed to save expense payer %s: %w", p.UserID, err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `
        SELECT expense_id, amount, description, currency_code, created_by, split_type, created_at
        FROM expenses
        WHERE expense_id = $1;
    `
	var m models.Expense
	err := r.Pool.QueryRow(ctx, query, expenseID).Scan(
		&m.ExpenseID,
		&m.Amount,
		&m.Description,
		&m.CurrencyCode,
		&m.CreatedBy,
		&m.SplitType,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}

	expenses, err := r.hydrateExpenses(ctx, []models.Expense{m})
	if err != nil {
		return nil, err
	}
	return &expenses[0], nil
}

// FindExpensesInvolvingUser retrieves every expense where the user appears as
// creator, participant or payer. The three id queries run concurrently and
// their results are merged and de-duplicated before the expense rows are
// loaded, so the caller always sees either the complete set or an error.
func (r *PgxExpenseRepository) FindExpensesInvolvingUser(ctx context.Context, userID string) ([]domain.Expense, error) {
	queries := []string{
		`SELECT expense_id FROM expenses WHERE created_by = $1`,
		`SELECT expense_id FROM expense_participants WHERE user_id = $1`,
		`SELECT expense_id FROM expense_payers WHERE user_id = $1`,
	}

	idSets := make([][]string, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			ids, err := r.queryExpenseIDs(gctx, q, userID)
			if err != nil {
				return err
			}
			idSets[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: listing expenses for user %s: %v", apperrors.ErrDataUnavailable, userID, err)
	}

	seen := make(map[string]bool)
	var expenseIDs []string
	for _, ids := range idSets {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				expenseIDs = append(expenseIDs, id)
			}
		}
	}
	if len(expenseIDs) == 0 {
		return []domain.Expense{}, nil
	}
	sort.Strings(expenseIDs)

	query := `
        SELECT expense_id, amount, description, currency_code, created_by, split_type, created_at
        FROM expenses
        WHERE expense_id = ANY($1);
    `
	rows, err := r.Pool.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: loading expenses for user %s: %v", apperrors.ErrDataUnavailable, userID, err)
	}
	defer rows.Close()

	var expenseModels []models.Expense
	for rows.Next() {
		var m models.Expense
		if err := rows.Scan(&m.ExpenseID, &m.Amount, &m.Description, &m.CurrencyCode, &m.CreatedBy, &m.SplitType, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning expense row: %v", apperrors.ErrDataUnavailable, err)
		}
		expenseModels = append(expenseModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating expense rows: %v", apperrors.ErrDataUnavailable, err)
	}

	expenses, err := r.hydrateExpenses(ctx, expenseModels)
	if err != nil {
		return nil, fmt.Errorf("%w: hydrating expenses for user %s: %v", apperrors.ErrDataUnavailable, userID, err)
	}
	return expenses, nil
}

func (r *PgxExpenseRepository) queryExpenseIDs(ctx context.Context, query string, userID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// hydrateExpenses batch-loads scopes, participants and payers for the given
// expense rows and assembles the domain expenses.
func (r *PgxExpenseRepository) hydrateExpenses(ctx context.Context, expenseModels []models.Expense) ([]domain.Expense, error) {
	ids := make([]string, len(expenseModels))
	for i, m := range expenseModels {
		ids[i] = m.ExpenseID
	}

	scopes := make(map[string][]domain.ExpenseScope)
	participants := make(map[string][]domain.ExpenseParticipant)
	payers := make(map[string][]domain.ExpensePayer)

	rows, err := r.Pool.Query(ctx, `SELECT expense_id, scope_type, scope_id FROM expense_scopes WHERE expense_id = ANY($1) ORDER BY expense_id, scope_id;`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense scopes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.ExpenseScope
		if err := rows.Scan(&m.ExpenseID, &m.ScopeType, &m.ScopeID); err != nil {
			return nil, fmt.Errorf("failed to scan expense scope: %w", err)
		}
		scopes[m.ExpenseID] = append(scopes[m.ExpenseID], domain.ExpenseScope{Type: domain.ScopeType(m.ScopeType), ID: m.ScopeID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating expense scopes: %w", err)
	}

	rows, err = r.Pool.Query(ctx, `SELECT expense_id, user_id, amount_owed, percentage FROM expense_participants WHERE expense_id = ANY($1) ORDER BY expense_id, user_id;`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense participants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.ExpenseParticipant
		if err := rows.Scan(&m.ExpenseID, &m.UserID, &m.AmountOwed, &m.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan expense participant: %w", err)
		}
		participants[m.ExpenseID] = append(participants[m.ExpenseID], domain.ExpenseParticipant{
			UserID:     m.UserID,
			AmountOwed: m.AmountOwed,
			Percentage: m.Percentage,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating expense participants: %w", err)
	}

	rows, err = r.Pool.Query(ctx, `SELECT expense_id, user_id, amount_paid FROM expense_payers WHERE expense_id = ANY($1) ORDER BY expense_id, user_id;`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load expense payers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m models.ExpensePayer
		if err := rows.Scan(&m.ExpenseID, &m.UserID, &m.AmountPaid); err != nil {
			return nil, fmt.Errorf("failed to scan expense payer: %w", err)
		}
		payers[m.ExpenseID] = append(payers[m.ExpenseID], domain.ExpensePayer{UserID: m.UserID, AmountPaid: m.AmountPaid})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating expense payers: %w", err)
	}

	expenses := make([]domain.Expense, len(expenseModels))
	for i, m := range expenseModels {
		expenses[i] = domain.Expense{
			ExpenseID:    m.ExpenseID,
			Amount:       m.Amount,
			Description:  m.Description,
			CurrencyCode: m.CurrencyCode,
			CreatedBy:    m.CreatedBy,
			SplitType:    domain.SplitType(m.SplitType),
			Scopes:       scopes[m.ExpenseID],
			Participants: participants[m.ExpenseID],
			Payers:       payers[m.ExpenseID],
			CreatedAt:    m.CreatedAt,
		}
	}
	return expenses, nil
}
