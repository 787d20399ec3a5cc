package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response API 响应信封，所有接口统一返回这个结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMessage(c, "success", data)
}

// SuccessWithMessage 成功响应，自定义提示语
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
		Success: true,
	})
}

// Error 错误响应，code 同时作为 HTTP 状态码
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Success: false,
	})
}

// BadRequest 400，请求参数问题
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "请先登录"
	}
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "记录不存在"
	}
	Error(c, http.StatusNotFound, message)
}

// Conflict 409，资源已存在（重复收藏、邮箱被占用等）
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalServerError 500，对外不暴露细节
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "服务异常，请稍后再试"
	}
	Error(c, http.StatusInternalServerError, message)
}
