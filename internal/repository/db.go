package repository

import (
	"fmt"

	"github.com/user/cinelog/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接并迁移表结构
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// migrate 迁移表结构
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Favorite{},
		&model.WatchlistEntry{},
		&model.WatchEvent{},
		&model.AccessLog{},
	)
	if err != nil {
		return fmt.Errorf("表结构迁移失败: %w", err)
	}

	// 观影记录的唯一键：电影的 season/episode 为 NULL，
	// 必须用 NULLS NOT DISTINCT 让 NULL 也参与去重，原子 upsert 才有冲突目标
	return db.Exec(`
		ALTER TABLE watch_events
		DROP CONSTRAINT IF EXISTS uq_watch_events_key;
		ALTER TABLE watch_events
		ADD CONSTRAINT uq_watch_events_key
		UNIQUE NULLS NOT DISTINCT (user_id, content_id, content_type, season, episode)
	`).Error
}

// Repositories 仓库集合
type Repositories struct {
	DB         *gorm.DB
	User       *UserRepository
	Favorite   *FavoriteRepository
	Watchlist  *WatchlistRepository
	WatchEvent *WatchEventRepository
	Stats      *StatsRepository
	AccessLog  *AccessLogRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:         db,
		User:       NewUserRepository(db),
		Favorite:   NewFavoriteRepository(db),
		Watchlist:  NewWatchlistRepository(db),
		WatchEvent: NewWatchEventRepository(db),
		Stats:      NewStatsRepository(db),
		AccessLog:  NewAccessLogRepository(db),
	}
}
