package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
)

// AddToWatchlist 加入待看清单，重复添加返回 409
func (h *Handler) AddToWatchlist(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求参数不合法")
		return
	}

	entry := &model.WatchlistEntry{
		UserID:      middleware.GetUserID(c),
		ItemID:      req.ItemID,
		ItemType:    req.ItemType,
		Title:       req.Title,
		Poster:      req.Poster,
		Backdrop:    req.Backdrop,
		ReleaseDate: req.ReleaseDate,
		VoteAverage: req.VoteAverage,
		Genres:      pq.StringArray(req.Genres),
	}
	affected, err := h.Repos.Watchlist.Add(entry)
	if err != nil {
		utils.InternalServerError(c, "添加失败")
		return
	}
	if affected == 0 {
		utils.Conflict(c, "已在待看清单中")
		return
	}
	utils.SuccessWithMessage(c, "已加入待看清单", entry)
}

// ListWatchlist 待看清单，最近添加在前
func (h *Handler) ListWatchlist(c *gin.Context) {
	entries, err := h.Repos.Watchlist.ListByUser(middleware.GetUserID(c))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, entries)
}

// CheckWatchlist 检查某个内容是否在待看清单中
func (h *Handler) CheckWatchlist(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		utils.BadRequest(c, "无效的路径参数")
		return
	}
	itemType := c.DefaultQuery("type", model.ContentTypeMovie)

	exists, err := h.Repos.Watchlist.Exists(middleware.GetUserID(c), itemID, itemType)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, gin.H{"in_watchlist": exists})
}

// RemoveFromWatchlist 从待看清单移除
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		utils.BadRequest(c, "无效的路径参数")
		return
	}

	affected, err := h.Repos.Watchlist.Remove(middleware.GetUserID(c), itemID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if affected == 0 {
		utils.NotFound(c, "待看条目不存在")
		return
	}
	utils.SuccessWithMessage(c, "已移除", nil)
}

// ClearWatchlist 清空待看清单
func (h *Handler) ClearWatchlist(c *gin.Context) {
	if err := h.Repos.Watchlist.Clear(middleware.GetUserID(c)); err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.SuccessWithMessage(c, "已清空待看清单", nil)
}
