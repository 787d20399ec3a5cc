package handler

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/service"
)

func init() {
	// 注册 content_type 校验规则，供 binding 标签使用
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("contenttype", func(fl validator.FieldLevel) bool {
			t := fl.Field().String()
			return t == model.ContentTypeMovie || t == model.ContentTypeTV
		})
	}
}

// Handler HTTP 处理器
type Handler struct {
	Repos   *repository.Repositories
	Config  *config.Config
	History *service.HistoryService
	Stats   *service.StatsService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// 历史去重与续播服务
	history := service.NewHistoryService(repos.WatchEvent)

	// 统计聚合引擎
	stats := service.NewStatsService(repos.Stats, repos.Favorite, repos.Watchlist, cfg.StatsOffset)

	return &Handler{
		Repos:   repos,
		Config:  cfg,
		History: history,
		Stats:   stats,
	}
}

// setLogin 下发 JWT Cookie 并把用户信息写入 Session
func (h *Handler) setLogin(c *gin.Context, user *model.User) error {
	token, err := middleware.GenerateToken(user.ID, user.Email, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return err
	}
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	})
	return session.Save()
}

// clearLogin 清除登录态
func (h *Handler) clearLogin(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)

	session := sessions.Default(c)
	session.Clear()
	session.Save()
}
