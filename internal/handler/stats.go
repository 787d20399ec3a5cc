package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
)

// Statistics 完整统计报表
// GET /api/stats?type=week|month（默认 week）
func (h *Handler) Statistics(c *gin.Context) {
	userID := middleware.GetUserID(c)
	windowKind := c.DefaultQuery("type", "week")

	report, err := h.Stats.Report(userID, windowKind)
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			utils.BadRequest(c, ve.Message)
			return
		}
		utils.InternalServerError(c, "统计计算失败")
		return
	}
	utils.Success(c, report)
}

// WatchTime 精简版观看时长报表
// GET /api/stats/watch-time?period=week|month，不传 period 表示全量
func (h *Handler) WatchTime(c *gin.Context) {
	userID := middleware.GetUserID(c)
	period := c.Query("period")

	report, err := h.Stats.WatchTime(userID, period)
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			utils.BadRequest(c, ve.Message)
			return
		}
		utils.InternalServerError(c, "统计计算失败")
		return
	}
	utils.Success(c, report)
}
