package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/utils"
)

// RecordProgress 上报观影进度
// 播放器每隔几秒调用一次，同一（用户, 内容, 季, 集）的记录原子覆盖
func (h *Handler) RecordProgress(c *gin.Context) {
	var input model.WatchEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.BadRequest(c, "请求体不是合法的 JSON")
		return
	}

	if err := input.Validate(); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			utils.BadRequest(c, ve.Message)
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	ev := input.Event(userID, time.Now().UTC())

	if err := h.Repos.WatchEvent.Upsert(ev); err != nil {
		utils.InternalServerError(c, "保存进度失败")
		return
	}

	utils.Success(c, ev)
}

// ListHistory 去重后的观影历史
func (h *Handler) ListHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)

	entries, err := h.History.List(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, entries)
}

// DeleteHistory 删除一条历史（剧集会级联删除整部剧的分集进度）
func (h *Handler) DeleteHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	entryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "无效的记录 ID")
		return
	}

	if err := h.History.Delete(userID, entryID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "记录不存在")
			return
		}
		utils.InternalServerError(c, "")
		return
	}
	utils.SuccessWithMessage(c, "已删除", nil)
}

// ClearHistory 清空观影历史
func (h *Handler) ClearHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if err := h.History.Clear(userID); err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.SuccessWithMessage(c, "已清空观影历史", nil)
}

// EpisodeProgress 单集续播进度
// GET /api/history/episode/:contentId/:season/:episode
func (h *Handler) EpisodeProgress(c *gin.Context) {
	userID := middleware.GetUserID(c)

	contentID, err1 := strconv.Atoi(c.Param("contentId"))
	season, err2 := strconv.Atoi(c.Param("season"))
	episode, err3 := strconv.Atoi(c.Param("episode"))
	if err1 != nil || err2 != nil || err3 != nil {
		utils.BadRequest(c, "无效的路径参数")
		return
	}

	progress, err := h.History.EpisodeProgress(userID, contentID, season, episode)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, progress)
}

// MovieProgress 电影续播进度
func (h *Handler) MovieProgress(c *gin.Context) {
	userID := middleware.GetUserID(c)

	contentID, err := strconv.Atoi(c.Param("contentId"))
	if err != nil {
		utils.BadRequest(c, "无效的路径参数")
		return
	}

	progress, err := h.History.MovieProgress(userID, contentID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, progress)
}

// SeriesOverview 剧集总览（逐集进度 + 聚合进度）
func (h *Handler) SeriesOverview(c *gin.Context) {
	userID := middleware.GetUserID(c)

	contentID, err := strconv.Atoi(c.Param("contentId"))
	if err != nil {
		utils.BadRequest(c, "无效的路径参数")
		return
	}

	overview, err := h.History.SeriesOverview(userID, contentID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, overview)
}
