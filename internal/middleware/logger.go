package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 请求日志中间件，已登录请求附带用户 ID
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 处理请求
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if userID := GetUserID(c); userID > 0 {
			log.Printf("[%s] %s %s %d %v user=%d",
				c.Request.Method, path, c.ClientIP(), status, latency, userID)
			return
		}
		log.Printf("[%s] %s %s %d %v",
			c.Request.Method, path, c.ClientIP(), status, latency)
	}
}
