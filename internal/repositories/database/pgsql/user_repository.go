package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaab-app/hisaab_backend/internal/core/ports/repositories"
	"github.com/hisaab-app/hisaab_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepository {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

// Helper to convert domain.User to models.User
func toModelUser(d domain.User) models.User {
	return models.User{
		UserID:          d.UserID,
		Name:            d.Name,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		DefaultCurrency: d.DefaultCurrency,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
		DeletedAt: d.DeletedAt,
	}
}

// Helper to convert models.User to domain.User
func toDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:          m.UserID,
		Name:            m.Name,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		DefaultCurrency: m.DefaultCurrency,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
		DeletedAt: m.DeletedAt,
	}
}

const userColumns = `user_id, name, email, password_hash, default_currency, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.DefaultCurrency,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)
	query := `
        INSERT INTO users (user_id, name, email, password_hash, default_currency, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.DefaultCurrency,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: email %s", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND deleted_at IS NULL;`
	m, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	u := toDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL;`
	m, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	u := toDomainUser(m)
	return &u, nil
}

func (r *PgxUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
        SELECT ` + userColumns + `
        FROM users
        WHERE deleted_at IS NULL
        ORDER BY created_at
        LIMIT $1 OFFSET $2;
    `
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, toDomainUser(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating user rows: %w", err)
	}
	return users, nil
}

func (r *PgxUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	result := make(map[string]domain.User, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ANY($1) AND deleted_at IS NULL;`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find users by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		result[m.UserID] = toDomainUser(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating user rows: %w", err)
	}
	return result, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	query := `
        UPDATE users
        SET name = $2, default_currency = $3, last_updated_at = $4, last_updated_by = $5
        WHERE user_id = $1 AND deleted_at IS NULL;
    `
	tag, err := r.db.Exec(ctx, query,
		user.UserID,
		user.Name,
		user.DefaultCurrency,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedBy string, now time.Time) error {
	query := `
        UPDATE users
        SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
        WHERE user_id = $1 AND deleted_at IS NULL;
    `
	tag, err := r.db.Exec(ctx, query, userID, now, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
