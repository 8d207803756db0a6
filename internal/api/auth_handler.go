package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/display-service/internal/config"
	"github.com/wfunc/display-service/internal/utils"
	"go.uber.org/zap"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	admin      *config.AdminConfig
	jwtManager *utils.JWTManager
	logger     *zap.Logger
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(admin *config.AdminConfig, jwtManager *utils.JWTManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		admin:      admin,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // 秒
}

// Login 登录
// @Summary 管理员登录
// @Description 使用配置的管理员凭证登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	if req.Username != h.admin.Username {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "LOGIN_FAILED",
			Message: "用户名或密码错误",
		})
		return
	}

	ok, err := utils.VerifyPassword(req.Password, h.admin.PasswordHash)
	if err != nil || !ok {
		h.logger.Warn("登录失败",
			zap.String("username", req.Username),
			zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "LOGIN_FAILED",
			Message: "用户名或密码错误",
		})
		return
	}

	accessToken, err := h.jwtManager.GenerateAccessToken(req.Username, "admin")
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "TOKEN_FAILED",
			Message: "令牌生成失败",
		})
		return
	}

	refreshToken, err := h.jwtManager.GenerateRefreshToken(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "TOKEN_FAILED",
			Message: "令牌生成失败",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(h.jwtManager.GetTokenExpiry("access").Seconds()),
	})
}

// RefreshTokenRequest 刷新令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken 刷新访问令牌
// @Summary 刷新令牌
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "刷新令牌"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "INVALID_REQUEST",
			Message: "请求参数错误",
			Details: err.Error(),
		})
		return
	}

	accessToken, err := h.jwtManager.RefreshAccessToken(req.RefreshToken, "admin")
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "REFRESH_FAILED",
			Message: "刷新令牌无效",
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(h.jwtManager.GetTokenExpiry("access").Seconds()),
	})
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse 成功响应
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
