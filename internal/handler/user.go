package handler

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
)

// Profile 获取当前用户资料
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.Repos.User.FindByID(middleware.GetUserID(c))
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

type profileRequest struct {
	Username         *string  `json:"username" binding:"omitempty,min=2,max=20"`
	Avatar           *string  `json:"avatar"`
	Bio              *string  `json:"bio" binding:"omitempty,max=500"`
	Location         *string  `json:"location" binding:"omitempty,max=100"`
	FavoriteGenres   []string `json:"favorite_genres"`
	SubtitleLanguage *string  `json:"subtitle_language"`
	Autoplay         *bool    `json:"autoplay"`
	DarkMode         *bool    `json:"dark_mode"`
}

// UpdateProfile 部分更新资料与偏好（未提交的字段保持不变）
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求参数不合法")
		return
	}

	userID := middleware.GetUserID(c)
	err := h.Repos.User.UpdateProfile(userID, &repository.ProfileUpdate{
		Username:         req.Username,
		Avatar:           req.Avatar,
		Bio:              req.Bio,
		Location:         req.Location,
		FavoriteGenres:   req.FavoriteGenres,
		SubtitleLanguage: req.SubtitleLanguage,
		Autoplay:         req.Autoplay,
		DarkMode:         req.DarkMode,
	})
	if err != nil {
		utils.InternalServerError(c, "资料更新失败")
		return
	}

	// 同步 Session 中的用户名
	if req.Username != nil {
		session := sessions.Default(c)
		if userinfo := session.Get("userinfo"); userinfo != nil {
			if su, ok := userinfo.(model.SessionUser); ok {
				su.Username = *req.Username
				session.Set("userinfo", su)
				session.Save()
			}
		}
	}

	user, err := h.Repos.User.FindByID(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.SuccessWithMessage(c, "资料已更新", user)
}

type emailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UpdateEmail 修改邮箱
func (h *Handler) UpdateEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请输入有效的邮箱地址")
		return
	}

	userID := middleware.GetUserID(c)
	newEmail := strings.TrimSpace(req.Email)

	// 检查邮箱是否已被其他账号使用
	existing, err := h.Repos.User.FindByEmail(newEmail)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if existing != nil && existing.ID != userID {
		utils.Conflict(c, "该邮箱已被其他账号使用")
		return
	}

	if err := h.Repos.User.UpdateEmail(userID, newEmail); err != nil {
		utils.InternalServerError(c, "邮箱更新失败")
		return
	}
	utils.SuccessWithMessage(c, "邮箱已更新", nil)
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// UpdatePassword 修改密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "新密码至少需要 6 个字符")
		return
	}

	userID := middleware.GetUserID(c)
	user, err := h.Repos.User.FindByID(userID)
	if err != nil || user == nil {
		utils.Unauthorized(c, "")
		return
	}

	if !h.Repos.User.CheckPassword(user, req.CurrentPassword) {
		utils.BadRequest(c, "当前密码错误")
		return
	}

	if err := h.Repos.User.UpdatePassword(userID, req.NewPassword); err != nil {
		utils.InternalServerError(c, "密码更新失败")
		return
	}
	utils.SuccessWithMessage(c, "密码已更新", nil)
}

// DeleteAccount 注销账号，连同观影数据一并删除
func (h *Handler) DeleteAccount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.History.Clear(userID); err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if err := h.Repos.Favorite.Clear(userID); err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if err := h.Repos.Watchlist.Clear(userID); err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if err := h.Repos.User.Delete(userID); err != nil {
		utils.InternalServerError(c, "账号注销失败")
		return
	}

	h.clearLogin(c)
	utils.SuccessWithMessage(c, "账号已注销", nil)
}
