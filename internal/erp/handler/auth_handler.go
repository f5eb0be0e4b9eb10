package handler

import (
	"github.com/bitfantasy/bws/internal/erp/navigation"
	"github.com/bitfantasy/bws/internal/erp/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	svc      *service.AuthService
	settings service.ClientSettings
}

func NewAuthHandler(svc *service.AuthService, settings service.ClientSettings) *AuthHandler {
	return &AuthHandler{svc: svc, settings: settings}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 用户名密码登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "username and password are required")
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, res)
}

// GetCurrentUser 当前用户
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := h.svc.GetUser(GetUserID(c))
	if !ok {
		NotFound(c, "user not found")
		return
	}
	Success(c, user)
}

// Navigation 当前用户可见的侧边栏
// GET /api/v1/navigation
func (h *AuthHandler) Navigation(c *gin.Context) {
	Success(c, navigation.Visible(GetRoles(c)))
}

// Settings 界面参数
// GET /api/v1/settings
func (h *AuthHandler) Settings(c *gin.Context) {
	Success(c, h.settings)
}
