package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
	portsrepo "github.com/hisaab-app/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
)

// groupService provides group management operations.
type groupService struct {
	BaseService
	groupRepo portsrepo.GroupRepository
	userRepo  portsrepo.UserReader
}

// NewGroupService creates a new GroupService.
func NewGroupService(groupRepo portsrepo.GroupRepository, userRepo portsrepo.UserReader) portssvc.GroupSvcFacade {
	return &groupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// Ensure groupService implements the portssvc.GroupSvcFacade interface
var _ portssvc.GroupSvcFacade = (*groupService)(nil)

// CreateGroup creates a group; the creator is always a member.
func (s *groupService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest, creatorUserID string) (*domain.Group, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: group name is required", apperrors.ErrValidation)
	}

	// Creator first, then the requested members de-duplicated.
	members := []string{creatorUserID}
	seen := map[string]bool{creatorUserID: true}
	for _, m := range req.Members {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		members = append(members, m)
	}

	if err := s.ensureUsersExist(ctx, members); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	group := domain.Group{
		GroupID: uuid.NewString(),
		Name:    req.Name,
		Icon:    req.Icon,
		Members: members,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.groupRepo.SaveGroup(ctx, group); err != nil {
		s.LogError(ctx, err, "Failed to save group", slog.String("group_name", req.Name))
		return nil, fmt.Errorf("failed to save group: %w", err)
	}

	s.LogInfo(ctx, "Group created", slog.String("group_id", group.GroupID), slog.Int("member_count", len(members)))
	return &group, nil
}

// ensureUsersExist verifies that every given user id resolves to a live user.
func (s *groupService) ensureUsersExist(ctx context.Context, userIDs []string) error {
	found, err := s.userRepo.FindUsersByIDs(ctx, userIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to look up users for group membership")
		return fmt.Errorf("failed to look up users: %w", err)
	}
	for _, id := range userIDs {
		if _, ok := found[id]; !ok {
			return fmt.Errorf("%w: unknown user %s", apperrors.ErrValidation, id)
		}
	}
	return nil
}

// GetGroupByID retrieves a group with its member list.
func (s *groupService) GetGroupByID(ctx context.Context, groupID string) (*domain.Group, error) {
	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroupsForUser retrieves all groups the user is a member of.
func (s *groupService) ListGroupsForUser(ctx context.Context, userID string) ([]domain.Group, error) {
	groups, err := s.groupRepo.FindGroupsByMember(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list groups", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// AddMember adds a user to a group. Only existing members may add.
func (s *groupService) AddMember(ctx context.Context, groupID string, userID string, requesterUserID string) error {
	group, err := s.groupRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return err
	}

	if !group.HasMember(requesterUserID) {
		return apperrors.ErrForbidden
	}
	if group.HasMember(userID) {
		return fmt.Errorf("%w: user %s is already a member", apperrors.ErrDuplicate, userID)
	}

	if err := s.ensureUsersExist(ctx, []string{userID}); err != nil {
		return err
	}

	if err := s.groupRepo.AddGroupMember(ctx, groupID, userID); err != nil {
		s.LogError(ctx, err, "Failed to add group member", slog.String("group_id", groupID), slog.String("member_id", userID))
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}
