package services

import (
	"context"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
)

// GroupSvcFacade defines operations for managing expense-sharing groups.
type GroupSvcFacade interface {
	// CreateGroup creates a group; the creator is always a member.
	CreateGroup(ctx context.Context, req dto.CreateGroupRequest, creatorUserID string) (*domain.Group, error)

	// GetGroupByID retrieves a group with its member list.
	GetGroupByID(ctx context.Context, groupID string) (*domain.Group, error)

	// ListGroupsForUser retrieves all groups the user is a member of.
	ListGroupsForUser(ctx context.Context, userID string) ([]domain.Group, error)

	// AddMember adds a user to a group. Only existing members may add.
	AddMember(ctx context.Context, groupID string, userID string, requesterUserID string) error
}
