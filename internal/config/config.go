package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	DatabaseURL string
	JWTExpiry   time.Duration
	Port        string
	SiteName    string
	// StatsOffset 统计引擎使用的时区偏移（日/周边界按该偏移下的本地时间切分）
	StatsOffset time.Duration
	// 允许跨域的前端来源，"*" 表示任意
	CORSOrigin string
	// 每个 IP 每分钟允许的请求数
	RateLimitPerMinute int
	// 访问日志保留天数
	AccessLogRetainDays int
}

// Load 加载配置
func Load() *Config {
	expiryHours, _ := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "24"))
	offsetHours, _ := strconv.Atoi(getEnv("TZ_OFFSET_HOURS", "7"))
	rateLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "120"))
	retainDays, _ := strconv.Atoi(getEnv("ACCESS_LOG_RETAIN_DAYS", "30"))

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "cinelog")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", "your-secret-key-change-in-production"))

	if getEnv("APP_ENV", "development") == "production" && appSecret == "your-secret-key-change-in-production" {
		fmt.Println("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:                 getEnv("APP_ENV", "development"),
		AppSecret:           appSecret,
		DatabaseURL:         dbURL,
		JWTExpiry:           time.Duration(expiryHours) * time.Hour,
		Port:                getEnv("PORT", "5006"),
		SiteName:            getEnv("SITE_NAME", "CineLog"),
		StatsOffset:         time.Duration(offsetHours) * time.Hour,
		CORSOrigin:          getEnv("CORS_ORIGIN", "*"),
		RateLimitPerMinute:  rateLimit,
		AccessLogRetainDays: retainDays,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
