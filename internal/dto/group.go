package dto

import (
	"time"

	"github.com/hisaab-app/hisaab_backend/internal/core/domain"
)

// CreateGroupRequest defines the data needed to create a group.
// The creator is added to the member list automatically.
type CreateGroupRequest struct {
	Name    string   `json:"name" binding:"required"`
	Icon    string   `json:"icon"`
	Members []string `json:"members"`
}

// AddGroupMemberRequest adds one user to an existing group.
type AddGroupMemberRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// GroupResponse is the API representation of a group.
type GroupResponse struct {
	GroupID   string    `json:"groupID"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Members   []string  `json:"members"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListGroupsResponse wraps the list of groups.
type ListGroupsResponse struct {
	Groups []GroupResponse `json:"groups"`
}

// ToGroupResponse converts a domain.Group to its API representation.
func ToGroupResponse(group *domain.Group) GroupResponse {
	return GroupResponse{
		GroupID:   group.GroupID,
		Name:      group.Name,
		Icon:      group.Icon,
		Members:   group.Members,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt,
	}
}

// ToListGroupsResponse converts a slice of domain.Group to ListGroupsResponse.
func ToListGroupsResponse(groups []domain.Group) ListGroupsResponse {
	groupResponses := make([]GroupResponse, len(groups))
	for i := range groups {
		groupResponses[i] = ToGroupResponse(&groups[i])
	}
	return ListGroupsResponse{
		Groups: groupResponses,
	}
}
