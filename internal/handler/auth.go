package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"huddle/internal/model"
	"huddle/internal/pkg/ctxutil"
	"huddle/internal/service"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"` // 用户名（必填）
	Email    string `json:"email" binding:"required,email"`           // 邮箱（必填）
	Password string `json:"password" binding:"required,min=8"`        // 密码（必填）
}

// LoginRequest 用户登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // 用户名（必填）
	Password string `json:"password" binding:"required"` // 密码（必填）
}

// UserInfo 用户信息（用于响应，所有API共用）
type UserInfo struct {
	ID          string `json:"id"`                      // 用户ID
	Username    string `json:"username"`                // 用户名
	Email       string `json:"email"`                   // 邮箱
	Plan        string `json:"plan"`                    // 订阅档位：free/pro
	Status      string `json:"status"`                  // 状态：active/banned
	LastLoginAt string `json:"last_login_at,omitempty"` // 最后登录时间
	CreatedAt   string `json:"created_at,omitempty"`    // 创建时间
}

func toUserInfo(user *model.User) UserInfo {
	info := UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Plan:      string(user.Plan),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		info.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	return info
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建新用户，默认免费档
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "注册请求"
// @Success      201     {object}  map[string]interface{}
// @Failure      400     {object}  model.ErrorResponse
// @Failure      409     {object}  model.ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if err == service.ErrUserAlreadyExists || err == service.ErrEmailTaken {
			c.JSON(http.StatusConflict, model.ErrorResponse{
				Code:    40901,
				Message: err.Error(),
			})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "注册成功",
		"data":    toUserInfo(user),
	})
}

// Login 用户登录
// @Summary      用户登录
// @Description  用户登录，返回Access Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "登录请求"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  model.ErrorResponse
// @Failure      401     {object}  model.ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch err {
		case service.ErrUserNotFound, service.ErrInvalidPassword:
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{
				Code:    40101,
				Message: err.Error(),
			})
		case service.ErrUserBanned:
			c.JSON(http.StatusForbidden, model.ErrorResponse{
				Code:    40304,
				Message: err.Error(),
			})
		default:
			writeError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "登录成功",
		"data": gin.H{
			"access_token": result.AccessToken,
			"expires_in":   result.ExpiresIn,
			"token_type":   result.TokenType,
			"user":         toUserInfo(result.User),
		},
	})
}

// Me 获取当前用户信息
// @Summary      当前用户信息
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  model.ErrorResponse
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := ctxutil.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{
			Code:    40101,
			Message: "未授权",
		})
		return
	}

	user, err := h.authService.Me(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": toUserInfo(user),
	})
}
