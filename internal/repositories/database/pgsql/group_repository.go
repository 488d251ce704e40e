package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaab-app/hisaab_backend/internal/core/ports/repositories"
	"github.com/hisaab-app/hisaab_backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxGroupRepository struct {
	BaseRepository
}

func newPgxGroupRepository(db *pgxpool.Pool) portsrepo.GroupRepository {
	return &PgxGroupRepository{BaseRepository{Pool: db}}
}

// Ensure PgxGroupRepository implements portsrepo.GroupRepository
var _ portsrepo.GroupRepository = (*PgxGroupRepository)(nil)

func toDomainGroup(m models.Group, members []string) domain.Group {
	return domain.Group{
		GroupID: m.GroupID,
		Name:    m.Name,
		Icon:    m.Icon,
		Members: members,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// SaveGroup persists a group and its member list in one transaction.
func (r *PgxGroupRepository) SaveGroup(ctx context.Context, group domain.Group) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // rollback after commit is a no-op

	groupQuery := `
        INSERT INTO groups (group_id, name, icon, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err = tx.Exec(ctx, groupQuery,
		group.GroupID,
		group.Name,
		group.Icon,
		group.CreatedAt,
		group.CreatedBy,
		group.LastUpdatedAt,
		group.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	memberQuery := `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2);`
	for _, userID := range group.Members {
		if _, err := tx.Exec(ctx, memberQuery, group.GroupID, userID); err != nil {
			return fmt.Errorf("failed to save group member %s: %w", userID, err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxGroupRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	query := `
        SELECT group_id, name, icon, created_at, created_by, last_updated_at, last_updated_by
        FROM groups
        WHERE group_id = $1;
    `
	var m models.Group
	err := r.Pool.QueryRow(ctx, query, groupID).Scan(
		&m.GroupID,
		&m.Name,
		&m.Icon,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find group by ID %s: %w", groupID, err)
	}

	members, err := r.findMemberIDs(ctx, groupID)
	if err != nil {
		return nil, err
	}

	group := toDomainGroup(m, members)
	return &group, nil
}

func (r *PgxGroupRepository) findMemberIDs(ctx context.Context, groupID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY user_id;`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to find members of group %s: %w", groupID, err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member row: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating group member rows: %w", err)
	}
	return members, nil
}

func (r *PgxGroupRepository) FindGroupsByMember(ctx context.Context, userID string) ([]domain.Group, error) {
	query := `
        SELECT g.group_id, g.name, g.icon, g.created_at, g.created_by, g.last_updated_at, g.last_updated_by
        FROM groups g
        JOIN group_members gm ON gm.group_id = g.group_id
        WHERE gm.user_id = $1
        ORDER BY g.created_at DESC;
    `
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for user %s: %w", userID, err)
	}
	defer rows.Close()

	var groupModels []models.Group
	for rows.Next() {
		var m models.Group
		if err := rows.Scan(&m.GroupID, &m.Name, &m.Icon, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groupModels = append(groupModels, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating group rows: %w", err)
	}

	groups := make([]domain.Group, 0, len(groupModels))
	for _, m := range groupModels {
		members, err := r.findMemberIDs(ctx, m.GroupID)
		if err != nil {
			return nil, err
		}
		groups = append(groups, toDomainGroup(m, members))
	}
	return groups, nil
}

func (r *PgxGroupRepository) AddGroupMember(ctx context.Context, groupID string, userID string) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2);`, groupID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: user %s already in group %s", apperrors.ErrDuplicate, userID, groupID)
		}
		return fmt.Errorf("failed to add member %s to group %s: %w", userID, groupID, err)
	}
	return nil
}
