package repository

import (
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

// StatsRepository 统计聚合查询
// 全部为只读聚合，供统计引擎并行调用
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountEvents 观影记录总数
func (r *StatsRepository) CountEvents(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.WatchEvent{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// CountInProgress 进行中的记录数（0 < 进度 < 90）
func (r *StatsRepository) CountInProgress(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.WatchEvent{}).
		Where("user_id = ? AND progress_percent > 0 AND progress_percent < ?", userID, model.CompletionThreshold).
		Count(&count).Error
	return int(count), err
}

// CountCompleted 完成的记录数（按事件行计，进度 >= 90）
func (r *StatsRepository) CountCompleted(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.WatchEvent{}).
		Where("user_id = ? AND progress_percent >= ?", userID, model.CompletionThreshold).
		Count(&count).Error
	return int(count), err
}

// SumWatchedSeconds 观看总时长（秒）
func (r *StatsRepository) SumWatchedSeconds(userID int) (float64, error) {
	var total float64
	err := r.db.Raw(`
		SELECT COALESCE(SUM(watched_seconds), 0)
		FROM watch_events
		WHERE user_id = $1
	`, userID).Scan(&total).Error
	return total, err
}

// CountCompletedMovies 完成的电影数（进度 >= 90）
func (r *StatsRepository) CountCompletedMovies(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.WatchEvent{}).
		Where("user_id = ? AND content_type = ? AND progress_percent >= ?",
			userID, model.ContentTypeMovie, model.CompletionThreshold).
		Count(&count).Error
	return int(count), err
}

// CountCompletedSeries 完成的剧集数
// 一部剧算完成：每集进度都 >= 90，且已看集数等于总集数；总集数未知时永远不算完成
func (r *StatsRepository) CountCompletedSeries(userID int) (int, error) {
	var count int
	err := r.db.Raw(`
		SELECT COUNT(*) FROM (
			SELECT content_id
			FROM watch_events
			WHERE user_id = $1 AND content_type = $2
			GROUP BY content_id
			HAVING MIN(progress_percent) >= $3
			   AND COUNT(*) = MAX(total_episodes)
		) done
	`, userID, model.ContentTypeTV, model.CompletionThreshold).Scan(&count).Error
	return count, err
}

// TopGenres 全量题材榜，先按内容去重再展开题材计数
func (r *StatsRepository) TopGenres(userID, limit int) ([]model.GenreCount, error) {
	var genres []model.GenreCount
	err := r.db.Raw(`
		SELECT genre, COUNT(*) AS count
		FROM (
			SELECT DISTINCT content_id, content_type, unnest(genres) AS genre
			FROM watch_events
			WHERE user_id = $1
		) g
		GROUP BY genre
		ORDER BY count DESC
		LIMIT $2
	`, userID, limit).Scan(&genres).Error
	return genres, err
}

// TopGenresInRange 窗口内题材榜（按事件行计数）
func (r *StatsRepository) TopGenresInRange(userID int, from, to time.Time, limit int) ([]model.GenreCount, error) {
	var genres []model.GenreCount
	err := r.db.Raw(`
		SELECT genre, COUNT(*) AS count
		FROM watch_events, unnest(genres) AS genre
		WHERE user_id = $1 AND watched_at >= $2 AND watched_at <= $3
		GROUP BY genre
		ORDER BY count DESC
		LIMIT $4
	`, userID, from, to, limit).Scan(&genres).Error
	return genres, err
}

// RecentGenres 最近 events 条记录里的题材分布
func (r *StatsRepository) RecentGenres(userID, events int) ([]model.GenreCount, error) {
	var genres []model.GenreCount
	err := r.db.Raw(`
		SELECT genre, COUNT(*) AS count
		FROM (
			SELECT genres, watched_at
			FROM watch_events
			WHERE user_id = $1
			ORDER BY watched_at DESC
			LIMIT $2
		) recent, unnest(recent.genres) AS genre
		GROUP BY genre
		ORDER BY count DESC, MAX(recent.watched_at) DESC
	`, userID, events).Scan(&genres).Error
	return genres, err
}

// ContentTypeDistribution 按类型统计去重内容数
// 按 content_id 去重：一部看了 10 集的剧只算 1，不按事件行数
func (r *StatsRepository) ContentTypeDistribution(userID int) ([]model.TypeCount, error) {
	var dist []model.TypeCount
	err := r.db.Raw(`
		SELECT content_type AS type, COUNT(DISTINCT content_id) AS count
		FROM watch_events
		WHERE user_id = $1
		GROUP BY content_type
	`, userID).Scan(&dist).Error
	return dist, err
}

// RangeSummaryRow 窗口汇总行
type RangeSummaryRow struct {
	TotalDuration   float64 `gorm:"column:total_duration"`
	TotalMovies     int     `gorm:"column:total_movies"`
	TotalTVEpisodes int     `gorm:"column:total_tv_episodes"`
	TotalContent    int     `gorm:"column:total_content"`
	TotalCompleted  int     `gorm:"column:total_completed"`
	AvgProgress     float64 `gorm:"column:avg_progress"`
}

// RangeSummary 窗口内汇总
func (r *StatsRepository) RangeSummary(userID int, from, to time.Time) (*RangeSummaryRow, error) {
	var row RangeSummaryRow
	err := r.db.Raw(`
		SELECT
			COALESCE(SUM(watched_seconds), 0)                                      AS total_duration,
			COUNT(*) FILTER (WHERE content_type = 'movie')                         AS total_movies,
			COUNT(*) FILTER (WHERE content_type = 'tv')                            AS total_tv_episodes,
			COUNT(*)                                                               AS total_content,
			COUNT(*) FILTER (WHERE progress_percent >= $4)                         AS total_completed,
			COALESCE(AVG(progress_percent), 0)                                     AS avg_progress
		FROM watch_events
		WHERE user_id = $1 AND watched_at >= $2 AND watched_at <= $3
	`, userID, from, to, model.CompletionThreshold).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// localWatchedAt 配置时区下的本地墙钟时间
// watched_at 是 timestamptz，必须先 AT TIME ZONE 'UTC' 固定成 UTC 墙钟
// 再加偏移，否则 to_char/EXTRACT 会跟随会话时区，偏移被叠加两次
const localWatchedAt = `(watched_at AT TIME ZONE 'UTC') + make_interval(mins => $2)`

// DayBucketRow 按本地日分桶的聚合行
type DayBucketRow struct {
	Date            string  `gorm:"column:date"`
	TotalDuration   float64 `gorm:"column:total_duration"`
	TotalMovies     int     `gorm:"column:total_movies"`
	TotalTVEpisodes int     `gorm:"column:total_tv_episodes"`
	TotalContent    int     `gorm:"column:total_content"`
	TotalCompleted  int     `gorm:"column:total_completed"`
}

// DayBuckets 按本地日聚合
// 存储时间是 UTC，分桶前先加上时区偏移，让桶边界落在本地日边界上
func (r *StatsRepository) DayBuckets(userID int, from, to time.Time, offsetMinutes int) ([]DayBucketRow, error) {
	var rows []DayBucketRow
	err := r.db.Raw(`
		SELECT
			to_char(`+localWatchedAt+`, 'YYYY-MM-DD')                      AS date,
			COALESCE(SUM(watched_seconds), 0)                              AS total_duration,
			COUNT(*) FILTER (WHERE content_type = 'movie')                 AS total_movies,
			COUNT(*) FILTER (WHERE content_type = 'tv')                    AS total_tv_episodes,
			COUNT(*)                                                       AS total_content,
			COUNT(*) FILTER (WHERE progress_percent >= $5)                 AS total_completed
		FROM watch_events
		WHERE user_id = $1 AND watched_at >= $3 AND watched_at <= $4
		GROUP BY date
		ORDER BY date
	`, userID, offsetMinutes, from, to, model.CompletionThreshold).Scan(&rows).Error
	return rows, err
}

// WeekStatRow 按 ISO 周分桶的聚合行
type WeekStatRow struct {
	Year           int     `gorm:"column:year"`
	Week           int     `gorm:"column:week"`
	TotalDuration  float64 `gorm:"column:total_duration"`
	WatchedCount   int     `gorm:"column:watched_count"`
	CompletedCount int     `gorm:"column:completed_count"`
}

// WeekStats 按 ISO 周聚合（观看时长报表的 month 粒度）
func (r *StatsRepository) WeekStats(userID int, from, to time.Time, offsetMinutes int) ([]WeekStatRow, error) {
	var rows []WeekStatRow
	err := r.db.Raw(`
		SELECT
			EXTRACT(ISOYEAR FROM `+localWatchedAt+`)::int                     AS year,
			EXTRACT(WEEK FROM `+localWatchedAt+`)::int                        AS week,
			COALESCE(SUM(watched_seconds), 0)                                 AS total_duration,
			COUNT(*)                                                          AS watched_count,
			COUNT(*) FILTER (WHERE progress_percent >= $5)                    AS completed_count
		FROM watch_events
		WHERE user_id = $1 AND watched_at >= $3 AND watched_at <= $4
		GROUP BY year, week
		ORDER BY year, week
	`, userID, offsetMinutes, from, to, model.CompletionThreshold).Scan(&rows).Error
	return rows, err
}

// TimeOfDay 观看时段分布
// 半开小时区间（本地时间）：早晨 [5,10)、午间 [10,15)、傍晚 [15,19)、夜晚 [19,5)
func (r *StatsRepository) TimeOfDay(userID int, from, to time.Time, offsetMinutes int) ([]model.TimeOfDayCount, error) {
	var rows []model.TimeOfDayCount
	err := r.db.Raw(`
		SELECT CASE
			WHEN h >= 5  AND h < 10 THEN '早晨'
			WHEN h >= 10 AND h < 15 THEN '午间'
			WHEN h >= 15 AND h < 19 THEN '傍晚'
			ELSE '夜晚'
		END AS time_of_day, COUNT(*) AS count
		FROM (
			SELECT EXTRACT(HOUR FROM `+localWatchedAt+`)::int AS h
			FROM watch_events
			WHERE user_id = $1 AND watched_at >= $3 AND watched_at <= $4
		) hours
		GROUP BY time_of_day
		ORDER BY count DESC
	`, userID, offsetMinutes, from, to).Scan(&rows).Error
	return rows, err
}

// ListRecent 最近观看的 limit 条记录
func (r *StatsRepository) ListRecent(userID, limit int) ([]model.WatchEvent, error) {
	var events []model.WatchEvent
	err := r.db.Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// ListInRange 窗口内的全部记录，最近在前
func (r *StatsRepository) ListInRange(userID int, from, to time.Time) ([]model.WatchEvent, error) {
	var events []model.WatchEvent
	err := r.db.Where("user_id = ? AND watched_at >= ? AND watched_at <= ?", userID, from, to).
		Order("watched_at DESC").
		Find(&events).Error
	return events, err
}
