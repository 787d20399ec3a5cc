package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/handler"
	"github.com/user/cinelog/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 认证 ====================
	auth := r.Group("/api/auth")
	auth.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.RequireAuth(h.Config.AppSecret), h.Me)
	}

	// ==================== 观影历史（需要登录）====================
	history := r.Group("/api/history")
	history.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		history.POST("", h.RecordProgress)
		history.GET("", h.ListHistory)
		history.DELETE("/all", h.ClearHistory)
		history.DELETE("/:id", h.DeleteHistory)

		// 续播进度
		history.GET("/movie/:contentId", h.MovieProgress)
		history.GET("/episode/:contentId/:season/:episode", h.EpisodeProgress)
		history.GET("/series/:contentId", h.SeriesOverview)

		// 精简版观看时长报表
		history.GET("/watch-time", h.WatchTime)
	}

	// ==================== 收藏 ====================
	favorites := r.Group("/api/favorites")
	favorites.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		favorites.POST("", h.AddFavorite)
		favorites.GET("", h.ListFavorites)
		favorites.GET("/check/:itemId", h.CheckFavorite)
		favorites.DELETE("/all", h.ClearFavorites)
		favorites.DELETE("/:itemId", h.RemoveFavorite)
	}

	// ==================== 待看清单 ====================
	watchlist := r.Group("/api/watchlist")
	watchlist.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		watchlist.POST("", h.AddToWatchlist)
		watchlist.GET("", h.ListWatchlist)
		watchlist.GET("/check/:itemId", h.CheckWatchlist)
		watchlist.DELETE("/all", h.ClearWatchlist)
		watchlist.DELETE("/:itemId", h.RemoveFromWatchlist)
	}

	// ==================== 统计 ====================
	stats := r.Group("/api/stats")
	stats.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		stats.GET("", h.Statistics)
	}

	// ==================== 访问日志 ====================
	r.POST("/api/log", middleware.OptionalAuth(h.Config.AppSecret), h.LogAccess)

	// ==================== 用户 ====================
	user := r.Group("/api/user")
	user.Use(middleware.RequireAuth(h.Config.AppSecret))
	{
		user.GET("/profile", h.Profile)
		user.PUT("/profile", h.UpdateProfile)
		user.PUT("/email", h.UpdateEmail)
		user.PUT("/password", h.UpdatePassword)
		user.DELETE("/account", h.DeleteAccount)
	}
}
