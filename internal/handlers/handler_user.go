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

type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(userService portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: userService}
}

// RegisterUserRoutes registers the user directory endpoints on the
// authenticated v1 group.
func RegisterUserRoutes(v1 *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := v1.Group("/users")
	users.GET("", h.listUsers)
	users.GET("/me", h.getCurrentUser)
	users.GET("/:userID", h.getUser)
	users.PUT("/:userID", h.updateUser)
	users.DELETE("/:userID", h.deleteUser)
}

// listUsers godoc
// @Summary List users
// @Description Returns a paginated user directory
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListUsersResponse
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListUsersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}

// getCurrentUser godoc
// @Summary Get the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getCurrentUser(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	h.respondWithUser(c, userID)
}

// getUser godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{userID} [get]
func (h *userHandler) getUser(c *gin.Context) {
	h.respondWithUser(c, c.Param("userID"))
}

func (h *userHandler) respondWithUser(c *gin.Context, userID string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("failed to get user", "error", err, "userID", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// updateUser godoc
// @Summary Update a user profile
// @Description Users may only update their own profile
// @Tags users
// @Accept json
// @Produce json
// @Param userID path string true "User ID"
// @Param user body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} map[string]string "Not allowed"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{userID} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), userID, req, updaterUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You may only update your own profile"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			logger.Error("failed to update user", "error", err, "userID", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Soft-deletes the authenticated user's own account
// @Tags users
// @Param userID path string true "User ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Not allowed"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /users/{userID} [delete]
func (h *userHandler) deleteUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	deleterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID, deleterUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "You may only delete your own account"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			logger.Error("failed to delete user", "error", err, "userID", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
