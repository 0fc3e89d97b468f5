package handler

import (
	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 密码登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	user, pair, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"user": user, "token": pair})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh 刷新令牌
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	pair, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, pair)
}

// Logout 登出，作废刷新令牌
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		Error(c, err)
		return
	}
	Success(c, nil)
}

// Me 当前登录用户
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authSvc.GetUser(GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, user)
}
