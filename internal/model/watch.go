package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// 内容类型
const (
	ContentTypeMovie = "movie"
	ContentTypeTV    = "tv"
)

// CompletionThreshold 完成判定阈值（进度百分比）
const CompletionThreshold = 90.0

// WatchEvent 观影进度记录
// 电影每个用户每部最多一条；剧集每个用户每（剧, 季, 集）最多一条，
// 由数据库唯一约束 uq_watch_events_key 保证
type WatchEvent struct {
	ID              int            `json:"id" db:"id"`
	UserID          int            `json:"user_id" db:"user_id"`
	ContentType     string         `json:"content_type" db:"content_type"`
	ContentID       int            `json:"content_id" db:"content_id"`
	Season          *int           `json:"season,omitempty" db:"season"`
	Episode         *int           `json:"episode,omitempty" db:"episode"`
	TotalEpisodes   *int           `json:"total_episodes,omitempty" db:"total_episodes"`
	Title           string         `json:"title" db:"title"`
	Poster          string         `json:"poster" db:"poster"`
	Backdrop        string         `json:"backdrop" db:"backdrop"`
	Genres          pq.StringArray `json:"genres" db:"genres" gorm:"type:text[]"`
	WatchedSeconds  float64        `json:"watched_seconds" db:"watched_seconds"`
	TotalSeconds    float64        `json:"total_seconds" db:"total_seconds"`
	ProgressPercent float64        `json:"progress_percent" db:"progress_percent"`
	WatchedAt       time.Time      `json:"watched_at" db:"watched_at"`
}

// ValidationError 请求字段校验错误
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// FlexInt 兼容数字或数字字符串的整数
// 内嵌播放器上报进度时经常把数字序列化成字符串
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("无效的整数值: %q", s)
	}
	*f = FlexInt(int(v))
	return nil
}

// FlexFloat 兼容数字或数字字符串的浮点数
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("无效的数值: %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

// WatchEventInput 进度上报请求
// content_type 决定哪些字段必填；season/episode 用指针区分"缺失"与合法的 0
type WatchEventInput struct {
	ContentType    string    `json:"content_type"`
	ContentID      *FlexInt  `json:"content_id"`
	Season         *FlexInt  `json:"season"`
	Episode        *FlexInt  `json:"episode"`
	TotalEpisodes  *FlexInt  `json:"total_episodes"`
	Title          string    `json:"title"`
	Poster         string    `json:"poster"`
	Backdrop       string    `json:"backdrop"`
	Genres         []string  `json:"genres"`
	WatchedSeconds FlexFloat `json:"watched_seconds"`
	TotalSeconds   FlexFloat `json:"total_seconds"`
}

// Validate 校验必填字段
// 注意 season/episode 只有为 null/缺失才算无效，0 是合法的集数
func (in *WatchEventInput) Validate() error {
	if in.ContentID == nil {
		return &ValidationError{Field: "content_id", Message: "content_id 不能为空"}
	}
	if in.ContentType != ContentTypeMovie && in.ContentType != ContentTypeTV {
		return &ValidationError{Field: "content_type", Message: "content_type 必须为 movie 或 tv"}
	}
	if in.ContentType == ContentTypeTV {
		if in.Season == nil {
			return &ValidationError{Field: "season", Message: "剧集必须提供 season"}
		}
		if in.Episode == nil {
			return &ValidationError{Field: "episode", Message: "剧集必须提供 episode"}
		}
	}
	if in.WatchedSeconds < 0 {
		return &ValidationError{Field: "watched_seconds", Message: "watched_seconds 不能为负"}
	}
	return nil
}

// Event 根据输入构造待写入的观影记录
func (in *WatchEventInput) Event(userID int, now time.Time) *WatchEvent {
	ev := &WatchEvent{
		UserID:         userID,
		ContentType:    in.ContentType,
		ContentID:      int(*in.ContentID),
		Title:          in.Title,
		Poster:         in.Poster,
		Backdrop:       in.Backdrop,
		Genres:         pq.StringArray(in.Genres),
		WatchedSeconds: float64(in.WatchedSeconds),
		TotalSeconds:   float64(in.TotalSeconds),
		WatchedAt:      now,
	}
	ev.ProgressPercent = Progress(ev.WatchedSeconds, ev.TotalSeconds)
	if in.ContentType == ContentTypeTV {
		season := int(*in.Season)
		episode := int(*in.Episode)
		ev.Season = &season
		ev.Episode = &episode
		if in.TotalEpisodes != nil {
			total := int(*in.TotalEpisodes)
			ev.TotalEpisodes = &total
		}
	}
	return ev
}

// Progress 计算进度百分比，限制在 [0, 100]，保留两位小数
// total 为 0 时视作时长未知，返回 0 而不是除零
func Progress(watched, total float64) float64 {
	if total <= 0 {
		return 0
	}
	p := watched / total * 100
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return math.Round(p*100) / 100
}

// HistoryEntry 去重后的历史视图条目
// 剧集以最近观看的一集代表整部剧；进度展示时重新计算，保留一位小数
type HistoryEntry struct {
	ID              int       `json:"id"`
	ContentType     string    `json:"content_type"`
	ContentID       int       `json:"content_id"`
	Season          *int      `json:"season,omitempty"`
	Episode         *int      `json:"episode,omitempty"`
	Title           string    `json:"title"`
	Poster          string    `json:"poster"`
	Backdrop        string    `json:"backdrop"`
	Genres          []string  `json:"genres"`
	WatchedSeconds  float64   `json:"watched_seconds"`
	TotalSeconds    float64   `json:"total_seconds"`
	ProgressPercent string    `json:"progress_percent"`
	WatchedAt       time.Time `json:"watched_at"`
}

// EpisodeProgress 单集播放进度（续播用，未观看时返回零值而不是 404）
type EpisodeProgress struct {
	ContentID       int        `json:"content_id"`
	Season          int        `json:"season"`
	Episode         int        `json:"episode"`
	WatchedSeconds  float64    `json:"watched_seconds"`
	TotalSeconds    float64    `json:"total_seconds"`
	ProgressPercent float64    `json:"progress_percent"`
	Completed       bool       `json:"completed"`
	WatchedAt       *time.Time `json:"watched_at,omitempty"`
}

// EpisodeStatus 剧集总览中的单集状态
type EpisodeStatus struct {
	Season          int       `json:"season"`
	Episode         int       `json:"episode"`
	Title           string    `json:"title"`
	WatchedSeconds  float64   `json:"watched_seconds"`
	TotalSeconds    float64   `json:"total_seconds"`
	ProgressPercent float64   `json:"progress_percent"`
	Completed       bool      `json:"completed"`
	WatchedAt       time.Time `json:"watched_at"`
}

// SeriesOverview 剧集总览：逐集进度 + 聚合进度
type SeriesOverview struct {
	ContentID           int             `json:"content_id"`
	Title               string          `json:"title"`
	Poster              string          `json:"poster"`
	Episodes            []EpisodeStatus `json:"episodes"`
	EpisodesWatched     int             `json:"episodes_watched"`
	TotalWatchedSeconds float64         `json:"total_watched_seconds"`
	TotalSeconds        float64         `json:"total_seconds"`
	OverallProgress     float64         `json:"overall_progress"`
	Completed           bool            `json:"completed"`
	HasWatched          bool            `json:"has_watched"`
}

// MovieProgress 电影播放进度
type MovieProgress struct {
	ContentID      int     `json:"content_id"`
	WatchedSeconds float64 `json:"watched_seconds"`
	TotalSeconds   float64 `json:"total_seconds"`
	Progress       float64 `json:"progress"`
	Completed      bool    `json:"completed"`
}
