package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
	"github.com/hisaab-app/hisaab_backend/internal/middleware"
)

type groupHandler struct {
	groupService portssvc.GroupSvcFacade
}

func newGroupHandler(groupService portssvc.GroupSvcFacade) *groupHandler {
	return &groupHandler{groupService: groupService}
}

// RegisterGroupRoutes registers the group endpoints on the authenticated v1 group.
func RegisterGroupRoutes(v1 *gin.RouterGroup, groupService portssvc.GroupSvcFacade) {
	h := newGroupHandler(groupService)

	groups := v1.Group("/groups")
	groups.POST("", h.createGroup)
	groups.GET("", h.listGroups)
	groups.GET("/:groupID", h.getGroup)
	groups.POST("/:groupID/members", h.addMember)
}

// createGroup godoc
// @Summary Create a group
// @Description Creates an expense-sharing group; the creator is always a member
// @Tags groups
// @Accept json
// @Produce json
// @Param group body dto.CreateGroupRequest true "Group details"
// @Success 201 {object} dto.GroupResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Security BearerAuth
// @Router /groups [post]
func (h *groupHandler) createGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("failed to create group", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupResponse(group))
}

// listGroups godoc
// @Summary List the authenticated user's groups
// @Tags groups
// @Produce json
// @Success 200 {object} dto.ListGroupsResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *groupHandler) listGroups(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	groups, err := h.groupService.ListGroupsForUser(c.Request.Context(), userID)
	if err != nil {
		logger.Error("failed to list groups", "error", err, "userID", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list groups"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListGroupsResponse(groups))
}

// getGroup godoc
// @Summary Get a group by id
// @Tags groups
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{groupID} [get]
func (h *groupHandler) getGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("groupID")

	group, err := h.groupService.GetGroupByID(c.Request.Context(), groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		logger.Error("failed to get group", "error", err, "groupID", groupID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get group"})
		return
	}

	c.JSON(http.StatusOK, dto.ToGroupResponse(group))
}

// addMember godoc
// @Summary Add a member to a group
// @Description Only existing members may add new members
// @Tags groups
// @Accept json
// @Produce json
// @Param groupID path string true "Group ID"
// @Param member body dto.AddGroupMemberRequest true "User to add"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Requester is not a member"
// @Failure 404 {object} map[string]string "Group not found"
// @Failure 409 {object} map[string]string "User is already a member"
// @Security BearerAuth
// @Router /groups/{groupID}/members [post]
func (h *groupHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	groupID := c.Param("groupID")

	requesterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.AddGroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.groupService.AddMember(c.Request.Context(), groupID, req.UserID, requesterUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only group members may add members"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "User is already a member"})
		default:
			logger.Error("failed to add group member", "error", err, "groupID", groupID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add group member"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
