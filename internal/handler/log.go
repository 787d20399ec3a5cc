package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinelog/internal/middleware"
	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
)

// hashIP 访问日志只存 IP 的截断哈希，不存明文
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	// 前 8 字节对统计去重已经足够
	return hex.EncodeToString(sum[:8])
}

type accessLogRequest struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	Status int    `json:"status"`
}

// LogAccess 记录一条访问日志
// 前端主动上报，IP 只存哈希，UA 原样保留
func (h *Handler) LogAccess(c *gin.Context) {
	var req accessLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "请求参数不合法")
		return
	}
	if req.Path == "" {
		req.Path = c.Request.Referer()
	}
	if req.Method == "" {
		req.Method = "GET"
	}

	entry := &model.AccessLog{
		UserID:    middleware.GetUserIDPtr(c),
		IPHash:    hashIP(c.ClientIP()),
		Method:    req.Method,
		Path:      req.Path,
		Status:    req.Status,
		UserAgent: c.Request.UserAgent(),
		CreatedAt: time.Now(),
	}
	if err := h.Repos.AccessLog.Log(entry); err != nil {
		utils.InternalServerError(c, "日志写入失败")
		return
	}
	utils.Success(c, nil)
}
