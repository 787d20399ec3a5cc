package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
)

type itemRequest struct {
	ItemID      int      `json:"item_id" binding:"required"`
	ItemType    string   `json:"item_type" binding:"required,contenttype"`
	Title       string   `json:"title"`
	Poster      string   `json:"poster"`
	Backdrop    string   `json:"backdrop"`
	ReleaseDate string   `json:"release_date"`
	VoteAverage string   `json:"vote_average"`
	Genres      []string `json:"genres"`
}

// AddFavorite 添加收藏，重复添加返回 409
func (h *Handler) AddFavorite(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求参数不合法")
		return
	}

	fav := &model.Favorite{
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
	affected, err := h.Repos.Favorite.Add(fav)
	if err != nil {
		utils.InternalServerError(c, "收藏失败")
		return
	}
	if affected == 0 {
		utils.Conflict(c, "已在收藏中")
		return
	}
	utils.SuccessWithMessage(c, "已收藏", fav)
}

// ListFavorites 收藏列表，最近添加在前
func (h *Handler) ListFavorites(c *gin.Context) {
	favorites, err := h.Repos.Favorite.ListByUser(middleware.GetUserID(c))
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, favorites)
}

// CheckFavorite 检查某个内容是否已收藏
func (h *Handler) CheckFavorite(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		utils.BadRequest(c, "无效的路径参数")
		return
	}
	itemType := c.DefaultQuery("type", model.ContentTypeMovie)

	exists, err := h.Repos.Favorite.Exists(middleware.GetUserID(c), itemID, itemType)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, gin.H{"favorited": exists})
}

// RemoveFavorite 取消收藏
func (h *Handler) RemoveFavorite(c *gin.Context) {
	itemID, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		utils.BadRequest(c, "无效的路径参数")
		return
	}

	affected, err := h.Repos.Favorite.Remove(middleware.GetUserID(c), itemID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	if affected == 0 {
		utils.NotFound(c, "收藏不存在")
		return
	}
	utils.SuccessWithMessage(c, "已取消收藏", nil)
}

// ClearFavorites 清空收藏
func (h *Handler) ClearFavorites(c *gin.Context) {
	if err := h.Repos.Favorite.Clear(middleware.GetUserID(c)); err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.SuccessWithMessage(c, "已清空收藏", nil)
}
