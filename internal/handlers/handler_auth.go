package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/hisaab-app/hisaab_backend/internal/apperrors"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
	"github.com/hisaab-app/hisaab_backend/internal/dto"
	"github.com/hisaab-app/hisaab_backend/internal/middleware"
	"github.com/hisaab-app/hisaab_backend/internal/platform/config"
	"github.com/hisaab-app/hisaab_backend/internal/utils"
)

type authHandler struct {
	userService portssvc.UserSvcFacade
	cfg         *config.Config
}

func newAuthHandler(userService portssvc.UserSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{userService: userService, cfg: cfg}
}

// RegisterAuthRoutes registers the public register/login endpoints.
// Login is rate limited per client IP to slow down credential stuffing.
func RegisterAuthRoutes(r *gin.Engine, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := newAuthHandler(userService, cfg)

	rate, err := limiter.NewRateFromFormatted(cfg.AuthRateLimit)
	if err != nil {
		rate = limiter.Rate{Period: time.Minute, Limit: 5}
	}
	limiterInstance := limiter.New(memory.NewStore(), rate)

	auth := r.Group("/auth")
	auth.POST("/register", h.register)
	auth.POST("/login", middleware.RateLimit(limiterInstance), h.login)
}

// register godoc
// @Summary Register a new user
// @Description Creates a user account with an email, password and default currency
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if req.DefaultCurrency == "" {
		req.DefaultCurrency = h.cfg.DefaultCurrency
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		logger.Error("failed to register user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// login godoc
// @Summary Log in
// @Description Verifies credentials and returns a signed JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 429 {object} map[string]string "Too many attempts"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.userService.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error("failed to verify credentials", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	token, err := utils.GenerateJWT(user.UserID, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, h.cfg.JWTIssuer)
	if err != nil {
		logger.Error("failed to sign token", "error", err, "userID", user.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, User: dto.ToUserResponse(user)})
}
