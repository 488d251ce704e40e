package repositories

import (
	"context"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
)

// GroupReader defines read operations for group data.
type GroupReader interface {
	// FindGroupByID retrieves a group with its member list.
	// Returns apperrors.ErrNotFound when no such group exists.
	FindGroupByID(ctx context.Context, groupID string) (*domain.Group, error)

	// FindGroupsByMember retrieves all groups the given user belongs to.
	FindGroupsByMember(ctx context.Context, userID string) ([]domain.Group, error)
}

// GroupWriter defines write operations for group data.
type GroupWriter interface {
	// SaveGroup persists a group and its member list.
	SaveGroup(ctx context.Context, group domain.Group) error

	// AddGroupMember adds a user to an existing group.
	AddGroupMember(ctx context.Context, groupID string, userID string) error
}

// GroupRepository combines read and write operations for groups.
type GroupRepository interface {
	GroupReader
	GroupWriter
}
