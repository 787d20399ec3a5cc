package model

import (
	"time"

	"github.com/lib/pq"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Avatar       string    `json:"avatar" db:"avatar"`
	Bio          string    `json:"bio" db:"bio"`
	Location     string    `json:"location" db:"location"`
	// 偏好设置
	FavoriteGenres   pq.StringArray `json:"favorite_genres" db:"favorite_genres" gorm:"type:text[]"`
	SubtitleLanguage string         `json:"subtitle_language" db:"subtitle_language" gorm:"default:zh-CN"`
	Autoplay         bool           `json:"autoplay" db:"autoplay" gorm:"default:true"`
	DarkMode         bool           `json:"dark_mode" db:"dark_mode" gorm:"default:true"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
	Role     string
}

// Favorite 收藏条目
// 每个用户对同一内容最多一条，展示元数据由客户端冗余提交，不做目录校验
type Favorite struct {
	ID          int            `json:"id" db:"id"`
	UserID      int            `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_user_favorite_item"`
	ItemID      int            `json:"item_id" db:"item_id" gorm:"uniqueIndex:idx_user_favorite_item"`
	ItemType    string         `json:"item_type" db:"item_type" gorm:"uniqueIndex:idx_user_favorite_item"`
	Title       string         `json:"title" db:"title"`
	Poster      string         `json:"poster" db:"poster"`
	Backdrop    string         `json:"backdrop" db:"backdrop"`
	ReleaseDate string         `json:"release_date" db:"release_date"`
	VoteAverage string         `json:"vote_average" db:"vote_average"`
	Genres      pq.StringArray `json:"genres" db:"genres" gorm:"type:text[]"`
	AddedAt     time.Time      `json:"added_at" db:"added_at"`
}

// WatchlistEntry 待看清单条目
type WatchlistEntry struct {
	ID          int            `json:"id" db:"id"`
	UserID      int            `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_user_watchlist_item"`
	ItemID      int            `json:"item_id" db:"item_id" gorm:"uniqueIndex:idx_user_watchlist_item"`
	ItemType    string         `json:"item_type" db:"item_type" gorm:"uniqueIndex:idx_user_watchlist_item"`
	Title       string         `json:"title" db:"title"`
	Poster      string         `json:"poster" db:"poster"`
	Backdrop    string         `json:"backdrop" db:"backdrop"`
	ReleaseDate string         `json:"release_date" db:"release_date"`
	VoteAverage string         `json:"vote_average" db:"vote_average"`
	Genres      pq.StringArray `json:"genres" db:"genres" gorm:"type:text[]"`
	AddedAt     time.Time      `json:"added_at" db:"added_at"`
}

// AccessLog 访问日志（IP 只存哈希，用于匿名统计）
type AccessLog struct {
	ID        int       `json:"id" db:"id"`
	UserID    *int      `json:"user_id" db:"user_id"`
	IPHash    string    `json:"ip_hash" db:"ip_hash"`
	Method    string    `json:"method" db:"method"`
	Path      string    `json:"path" db:"path"`
	Status    int       `json:"status" db:"status"`
	UserAgent string    `json:"user_agent" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"index"`
}
