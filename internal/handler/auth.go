package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/utils"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"omitempty,min=2,max=20"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求参数不合法")
		return
	}

	// 检查邮箱是否已存在
	existing, err := h.Repos.User.FindByEmail(req.Email)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if existing != nil {
		utils.Conflict(c, "该邮箱已被注册")
		return
	}

	// 未提供用户名时，默认截取邮箱 @ 符号前的内容
	username := req.Username
	if username == "" {
		if parts := strings.Split(req.Email, "@"); len(parts) > 0 {
			username = parts[0]
		}
	}

	user, err := h.Repos.User.Create(req.Email, username, req.Password)
	if err != nil {
		utils.InternalServerError(c, "注册失败，请重试")
		return
	}

	// 注册即登录
	if err := h.setLogin(c, user); err != nil {
		utils.InternalServerError(c, "登录失败，请重试")
		return
	}

	utils.SuccessWithMessage(c, "注册成功", gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求参数不合法")
		return
	}

	user, err := h.Repos.User.FindByEmail(req.Email)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	// 用户不存在和密码错误返回同一个提示，避免暴露账号是否存在
	if user == nil || !h.Repos.User.CheckPassword(user, req.Password) {
		utils.Unauthorized(c, "邮箱或密码错误")
		return
	}

	if err := h.setLogin(c, user); err != nil {
		utils.InternalServerError(c, "登录失败，请重试")
		return
	}

	utils.SuccessWithMessage(c, "登录成功", gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
	})
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	h.clearLogin(c)
	utils.SuccessWithMessage(c, "已退出登录", nil)
}

// Me 当前登录用户信息
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	user, err := h.Repos.User.FindByID(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if user == nil {
		utils.Unauthorized(c, "")
		return
	}
	utils.Success(c, user)
}
