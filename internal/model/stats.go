package model

import "time"

// GenreCount 某个题材的出现次数
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// TypeCount 按内容类型统计的去重内容数（剧集无论看了几集只算一部）
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// TimeOfDayCount 观看时段分布（按配置时区的本地小时划分）
type TimeOfDayCount struct {
	TimeOfDay string `json:"time_of_day"`
	Count     int    `json:"count"`
}

// OverallStats 全量统计
type OverallStats struct {
	TotalContentWatched     int          `json:"total_content_watched"`
	TotalCompleted          int          `json:"total_completed"`
	TotalInProgress         int          `json:"total_in_progress"`
	TotalFavorites          int          `json:"total_favorites"`
	TotalWatchlist          int          `json:"total_watchlist"`
	TotalWatchSeconds       float64      `json:"total_watch_seconds"`
	FormattedWatchTime      string       `json:"formatted_watch_time"`
	MostWatchedGenres       []GenreCount `json:"most_watched_genres"`
	ContentTypeDistribution []TypeCount  `json:"content_type_distribution"`
}

// ActivityItem 时间桶里的观看条目
type ActivityItem struct {
	Title           string  `json:"title"`
	ContentType     string  `json:"content_type"`
	Poster          string  `json:"poster"`
	ProgressPercent float64 `json:"progress_percent"`
}

// DayBucket 按天的统计桶（本地日边界，无活动也会补零输出）
type DayBucket struct {
	Date            string         `json:"date"`
	DayOfWeek       string         `json:"day_of_week"`
	TotalDuration   float64        `json:"total_duration"`
	TotalMovies     int            `json:"total_movies"`
	TotalTVEpisodes int            `json:"total_tv_episodes"`
	TotalContent    int            `json:"total_content"`
	TotalCompleted  int            `json:"total_completed"`
	CompletionRate  int            `json:"completion_rate"`
	HasActivity     bool           `json:"has_activity"`
	Items           []ActivityItem `json:"items"`
}

// WeekBucket 按 7 天块的统计桶（"月"窗口 = 最近 4 个 7 天块）
type WeekBucket struct {
	WeekNumber      int     `json:"week_number"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDuration   float64 `json:"total_duration"`
	TotalMovies     int     `json:"total_movies"`
	TotalTVEpisodes int     `json:"total_tv_episodes"`
	TotalContent    int     `json:"total_content"`
	TotalCompleted  int     `json:"total_completed"`
	CompletionRate  int     `json:"completion_rate"`
	HasActivity     bool    `json:"has_activity"`
}

// PeriodSummary 窗口内汇总
type PeriodSummary struct {
	TotalDuration      float64          `json:"total_duration"`
	TotalMovies        int              `json:"total_movies"`
	TotalTVEpisodes    int              `json:"total_tv_episodes"`
	TotalContent       int              `json:"total_content"`
	TotalCompleted     int              `json:"total_completed"`
	CompletionRate     int              `json:"completion_rate"`
	AvgProgressPercent float64          `json:"avg_progress_percent"`
	FormattedWatchTime string           `json:"formatted_watch_time"`
	AvgWatchTimePerDay string           `json:"avg_watch_time_per_day"`
	TopGenres          []GenreCount     `json:"top_genres"`
	FavoriteWatchTimes []TimeOfDayCount `json:"favorite_watch_times"`
}

// PeriodReport 窗口统计
type PeriodReport struct {
	Type      string        `json:"type"`
	Label     string        `json:"label"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Summary   PeriodSummary `json:"summary"`
	Days      []DayBucket   `json:"days,omitempty"`
	Weeks     []WeekBucket  `json:"weeks,omitempty"`
}

// RecentItem 最近观看条目（时间按配置时区换算后展示）
type RecentItem struct {
	Title           string   `json:"title"`
	ContentType     string   `json:"content_type"`
	ContentID       int      `json:"content_id"`
	Season          *int     `json:"season,omitempty"`
	Episode         *int     `json:"episode,omitempty"`
	Poster          string   `json:"poster"`
	Backdrop        string   `json:"backdrop"`
	Genres          []string `json:"genres"`
	WatchedSeconds  float64  `json:"watched_seconds"`
	TotalSeconds    float64  `json:"total_seconds"`
	ProgressPercent float64  `json:"progress_percent"`
	WatchedAt       string   `json:"watched_at"`
	FormattedDate   string   `json:"formatted_date"`
}

// StatisticsReport 完整统计报表
type StatisticsReport struct {
	Overall        OverallStats `json:"overall"`
	Period         PeriodReport `json:"period"`
	RecentActivity []RecentItem `json:"recent_activity"`
	Timezone       string       `json:"timezone"`
	LastUpdated    string       `json:"last_updated"`
}

// PeriodStat 观看时长报表的分桶行
type PeriodStat struct {
	Date           string  `json:"date,omitempty"`
	Week           int     `json:"week,omitempty"`
	Year           int     `json:"year,omitempty"`
	TotalDuration  float64 `json:"total_duration"`
	WatchedCount   int     `json:"watched_count"`
	CompletedCount int     `json:"completed_count"`
	CompletionRate int     `json:"completion_rate"`
}

// WatchTimeReport 精简版观看时长报表（period 为空表示全量）
type WatchTimeReport struct {
	TotalWatched   int          `json:"total_watched"`
	TotalDuration  float64      `json:"total_duration"`
	CompletedCount int          `json:"completed_count"`
	RecentGenres   []GenreCount `json:"recent_genres"`
	PeriodStats    []PeriodStat `json:"period_stats"`
	Period         string       `json:"period"`
}
