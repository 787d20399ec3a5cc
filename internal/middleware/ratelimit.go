package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// RateLimit 按 IP 的简单限流：每分钟最多 limit 个请求
// 键里带分钟戳，窗口随键自然轮转；TTL 只负责回收旧窗口的计数器
func RateLimit(limit int) gin.HandlerFunc {
	counters := cache.New(time.Minute, 2*time.Minute)

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate:%s:%s", c.ClientIP(), time.Now().Format("15:04"))

		if hit(counters, key) > limit {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "请求过于频繁，请稍后再试"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// hit 计数器加一并返回当前值
// 先 Add 抢首次写入，失败说明键已存在再原子递增，并发的首批请求不会互相覆盖
func hit(counters *cache.Cache, key string) int {
	if err := counters.Add(key, 1, time.Minute); err == nil {
		return 1
	}
	count, err := counters.IncrementInt(key, 1)
	if err != nil {
		// 键恰好在递增前过期，当作新窗口的第一个请求
		counters.Set(key, 1, time.Minute)
		return 1
	}
	return count
}
