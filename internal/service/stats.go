package service

import (
	"fmt"
	"time"

	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// StatsStore 统计服务依赖的聚合查询
type StatsStore interface {
	CountEvents(userID int) (int, error)
	CountInProgress(userID int) (int, error)
	CountCompleted(userID int) (int, error)
	SumWatchedSeconds(userID int) (float64, error)
	CountCompletedMovies(userID int) (int, error)
	CountCompletedSeries(userID int) (int, error)
	TopGenres(userID, limit int) ([]model.GenreCount, error)
	TopGenresInRange(userID int, from, to time.Time, limit int) ([]model.GenreCount, error)
	RecentGenres(userID, events int) ([]model.GenreCount, error)
	ContentTypeDistribution(userID int) ([]model.TypeCount, error)
	RangeSummary(userID int, from, to time.Time) (*repository.RangeSummaryRow, error)
	DayBuckets(userID int, from, to time.Time, offsetMinutes int) ([]repository.DayBucketRow, error)
	WeekStats(userID int, from, to time.Time, offsetMinutes int) ([]repository.WeekStatRow, error)
	TimeOfDay(userID int, from, to time.Time, offsetMinutes int) ([]model.TimeOfDayCount, error)
	ListRecent(userID, limit int) ([]model.WatchEvent, error)
	ListInRange(userID int, from, to time.Time) ([]model.WatchEvent, error)
}

// CounterStore 只提供按用户计数（收藏、待看清单）
type CounterStore interface {
	CountByUser(userID int) (int64, error)
}

// 周统计永远输出 7 个日桶，月统计输出 4 个周桶
const (
	WindowWeek  = "week"
	WindowMonth = "month"

	weekDays   = 7
	monthDays  = 28
	monthWeeks = 4
)

var weekdayNames = [7]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// StatsService 统计聚合引擎
// 分桶边界按配置的时区偏移计算：先加偏移取本地日界，再减回去查 UTC 存储
type StatsService struct {
	stats     StatsStore
	favorites CounterStore
	watchlist CounterStore
	offset    time.Duration
	now       func() time.Time

	cache *utils.TTLCache[*model.StatisticsReport]
	group singleflight.Group
}

func NewStatsService(stats StatsStore, favorites, watchlist CounterStore, offset time.Duration) *StatsService {
	return &StatsService{
		stats:     stats,
		favorites: favorites,
		watchlist: watchlist,
		offset:    offset,
		now:       time.Now,
		cache:     utils.NewTTLCache[*model.StatisticsReport](256, 30*time.Second),
	}
}

// Report 完整统计报表，windowKind 只接受 week 或 month
// 相同请求在缓存期内直接命中，同一时刻的并发请求只算一次
func (s *StatsService) Report(userID int, windowKind string) (*model.StatisticsReport, error) {
	if windowKind != WindowWeek && windowKind != WindowMonth {
		return nil, &model.ValidationError{Field: "type", Message: "type 必须为 week 或 month"}
	}

	key := fmt.Sprintf("stats:%d:%s", userID, windowKind)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		report, err := s.buildReport(userID, windowKind)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, report)
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.StatisticsReport), nil
}

// buildReport 组装报表，所有只读聚合作为一个并行批次执行
func (s *StatsService) buildReport(userID int, windowKind string) (*model.StatisticsReport, error) {
	nowUTC := s.now().UTC()
	nowLocal := nowUTC.Add(s.offset)
	startOfTodayLocal := truncateDay(nowLocal)
	startOfTodayUTC := startOfTodayLocal.Add(-s.offset)

	days := weekDays
	label := "最近 7 天"
	if windowKind == WindowMonth {
		days = monthDays
		label = "最近 4 周"
	}
	fromUTC := startOfTodayUTC.AddDate(0, 0, -(days - 1))
	toUTC := nowUTC

	var (
		overall        model.OverallStats
		completedShows int
		summaryRow     *repository.RangeSummaryRow
		periodGenres   []model.GenreCount
		timeOfDay      []model.TimeOfDayCount
		dayRows        []repository.DayBucketRow
		rangeEvents    []model.WatchEvent
		recent         []model.WatchEvent
		weekBuckets    []model.WeekBucket
	)

	g := new(errgroup.Group)
	g.Go(func() (err error) { overall.TotalContentWatched, err = s.stats.CountEvents(userID); return })
	g.Go(func() (err error) { overall.TotalInProgress, err = s.stats.CountInProgress(userID); return })
	g.Go(func() (err error) { overall.TotalWatchSeconds, err = s.stats.SumWatchedSeconds(userID); return })
	g.Go(func() (err error) { overall.TotalCompleted, err = s.stats.CountCompletedMovies(userID); return })
	g.Go(func() (err error) { completedShows, err = s.stats.CountCompletedSeries(userID); return })
	g.Go(func() (err error) { overall.MostWatchedGenres, err = s.stats.TopGenres(userID, 5); return })
	g.Go(func() (err error) { overall.ContentTypeDistribution, err = s.stats.ContentTypeDistribution(userID); return })
	g.Go(func() error {
		count, err := s.favorites.CountByUser(userID)
		overall.TotalFavorites = int(count)
		return err
	})
	g.Go(func() error {
		count, err := s.watchlist.CountByUser(userID)
		overall.TotalWatchlist = int(count)
		return err
	})
	g.Go(func() (err error) { summaryRow, err = s.stats.RangeSummary(userID, fromUTC, toUTC); return })
	g.Go(func() (err error) { periodGenres, err = s.stats.TopGenresInRange(userID, fromUTC, toUTC, 5); return })
	g.Go(func() (err error) {
		timeOfDay, err = s.stats.TimeOfDay(userID, fromUTC, toUTC, s.offsetMinutes())
		return
	})
	g.Go(func() (err error) { recent, err = s.stats.ListRecent(userID, 10); return })

	if windowKind == WindowWeek {
		g.Go(func() (err error) {
			dayRows, err = s.stats.DayBuckets(userID, fromUTC, toUTC, s.offsetMinutes())
			return
		})
		g.Go(func() (err error) { rangeEvents, err = s.stats.ListInRange(userID, fromUTC, toUTC); return })
	} else {
		g.Go(func() (err error) {
			weekBuckets, err = s.monthBuckets(userID, startOfTodayLocal)
			return
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	overall.TotalCompleted += completedShows
	overall.FormattedWatchTime = utils.FormatWatchTime(overall.TotalWatchSeconds)
	if overall.MostWatchedGenres == nil {
		overall.MostWatchedGenres = []model.GenreCount{}
	}
	if overall.ContentTypeDistribution == nil {
		overall.ContentTypeDistribution = []model.TypeCount{}
	}

	summary := s.buildSummary(summaryRow, periodGenres, timeOfDay, days)

	report := &model.StatisticsReport{
		Overall: overall,
		Period: model.PeriodReport{
			Type:      windowKind,
			Label:     label,
			StartDate: fromUTC,
			EndDate:   nowUTC,
			Summary:   summary,
		},
		RecentActivity: s.recentItems(recent),
		Timezone:       s.timezoneLabel(),
		LastUpdated:    nowLocal.Format("2006-01-02 15:04:05"),
	}

	if windowKind == WindowWeek {
		report.Period.Days = s.weekDayBuckets(startOfTodayLocal, dayRows, rangeEvents)
	} else {
		report.Period.Weeks = weekBuckets
	}

	return report, nil
}

// buildSummary 窗口内汇总：比率取整，平均进度保留一位小数
func (s *StatsService) buildSummary(row *repository.RangeSummaryRow, genres []model.GenreCount, timeOfDay []model.TimeOfDayCount, days int) model.PeriodSummary {
	if genres == nil {
		genres = []model.GenreCount{}
	}
	if timeOfDay == nil {
		timeOfDay = []model.TimeOfDayCount{}
	}
	summary := model.PeriodSummary{
		TopGenres:          genres,
		FavoriteWatchTimes: timeOfDay,
	}
	if row == nil {
		summary.FormattedWatchTime = utils.FormatWatchTime(0)
		summary.AvgWatchTimePerDay = utils.FormatWatchTime(0)
		return summary
	}

	summary.TotalDuration = row.TotalDuration
	summary.TotalMovies = row.TotalMovies
	summary.TotalTVEpisodes = row.TotalTVEpisodes
	summary.TotalContent = row.TotalContent
	summary.TotalCompleted = row.TotalCompleted
	summary.CompletionRate = rate(row.TotalCompleted, row.TotalContent)
	summary.AvgProgressPercent = round1(row.AvgProgress)
	summary.FormattedWatchTime = utils.FormatWatchTime(row.TotalDuration)
	summary.AvgWatchTimePerDay = utils.FormatWatchTime(row.TotalDuration / float64(days))
	return summary
}

// weekDayBuckets 生成最近 7 个本地日的统计桶
// 没有活动的日子也输出全零桶，绝不稀疏返回
func (s *StatsService) weekDayBuckets(startOfTodayLocal time.Time, rows []repository.DayBucketRow, events []model.WatchEvent) []model.DayBucket {
	byDate := make(map[string]repository.DayBucketRow, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row
	}

	itemsByDate := make(map[string][]model.ActivityItem)
	for _, ev := range events {
		date := ev.WatchedAt.Add(s.offset).Format("2006-01-02")
		itemsByDate[date] = append(itemsByDate[date], model.ActivityItem{
			Title:           ev.Title,
			ContentType:     ev.ContentType,
			Poster:          ev.Poster,
			ProgressPercent: ev.ProgressPercent,
		})
	}

	buckets := make([]model.DayBucket, 0, weekDays)
	for i := weekDays - 1; i >= 0; i-- {
		day := startOfTodayLocal.AddDate(0, 0, -i)
		date := day.Format("2006-01-02")

		bucket := model.DayBucket{
			Date:      date,
			DayOfWeek: weekdayNames[day.Weekday()],
			Items:     []model.ActivityItem{},
		}
		if row, ok := byDate[date]; ok {
			bucket.TotalDuration = row.TotalDuration
			bucket.TotalMovies = row.TotalMovies
			bucket.TotalTVEpisodes = row.TotalTVEpisodes
			bucket.TotalContent = row.TotalContent
			bucket.TotalCompleted = row.TotalCompleted
			bucket.CompletionRate = rate(row.TotalCompleted, row.TotalContent)
			bucket.HasActivity = row.TotalContent > 0
		}
		if items, ok := itemsByDate[date]; ok {
			bucket.Items = items
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// monthBuckets 最近 4 个 7 天块（不是日历月），每块一次窗口汇总，无活动也补零
func (s *StatsService) monthBuckets(userID int, startOfTodayLocal time.Time) ([]model.WeekBucket, error) {
	type block struct {
		number     int
		startLocal time.Time
		endLocal   time.Time
	}

	blocks := make([]block, 0, monthWeeks)
	for i := monthWeeks - 1; i >= 0; i-- {
		start := startOfTodayLocal.AddDate(0, 0, -i*7-6)
		end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
		blocks = append(blocks, block{number: monthWeeks - i, startLocal: start, endLocal: end})
	}

	buckets := make([]model.WeekBucket, len(blocks))
	g := new(errgroup.Group)
	for i, b := range blocks {
		i, b := i, b
		g.Go(func() error {
			row, err := s.stats.RangeSummary(userID, b.startLocal.Add(-s.offset), b.endLocal.Add(-s.offset))
			if err != nil {
				return err
			}
			bucket := model.WeekBucket{
				WeekNumber: b.number,
				StartDate:  b.startLocal.Format("2006-01-02"),
				EndDate:    b.endLocal.Format("2006-01-02"),
			}
			if row != nil {
				bucket.TotalDuration = row.TotalDuration
				bucket.TotalMovies = row.TotalMovies
				bucket.TotalTVEpisodes = row.TotalTVEpisodes
				bucket.TotalContent = row.TotalContent
				bucket.TotalCompleted = row.TotalCompleted
				bucket.CompletionRate = rate(row.TotalCompleted, row.TotalContent)
				bucket.HasActivity = row.TotalContent > 0
			}
			buckets[i] = bucket
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return buckets, nil
}

// recentItems 最近观看列表，时间换算成配置时区展示
func (s *StatsService) recentItems(events []model.WatchEvent) []model.RecentItem {
	items := make([]model.RecentItem, 0, len(events))
	for _, ev := range events {
		local := ev.WatchedAt.Add(s.offset)
		items = append(items, model.RecentItem{
			Title:           ev.Title,
			ContentType:     ev.ContentType,
			ContentID:       ev.ContentID,
			Season:          ev.Season,
			Episode:         ev.Episode,
			Poster:          ev.Poster,
			Backdrop:        ev.Backdrop,
			Genres:          ev.Genres,
			WatchedSeconds:  ev.WatchedSeconds,
			TotalSeconds:    ev.TotalSeconds,
			ProgressPercent: ev.ProgressPercent,
			WatchedAt:       local.Format("2006-01-02T15:04:05"),
			FormattedDate:   local.Format("02 Jan 2006, 15:04"),
		})
	}
	return items
}

// WatchTime 精简版观看时长报表
// period 为空表示全量，week 按日分桶，month 按 ISO 周分桶
func (s *StatsService) WatchTime(userID int, period string) (*model.WatchTimeReport, error) {
	if period != "" && period != WindowWeek && period != WindowMonth {
		return nil, &model.ValidationError{Field: "period", Message: "period 必须为 week、month 或留空"}
	}

	nowUTC := s.now().UTC()
	report := &model.WatchTimeReport{
		Period:      period,
		PeriodStats: []model.PeriodStat{},
	}
	if period == "" {
		report.Period = "all-time"
	}

	g := new(errgroup.Group)
	g.Go(func() (err error) { report.TotalWatched, err = s.stats.CountEvents(userID); return })
	g.Go(func() (err error) { report.TotalDuration, err = s.stats.SumWatchedSeconds(userID); return })
	g.Go(func() (err error) { report.CompletedCount, err = s.stats.CountCompleted(userID); return })
	g.Go(func() (err error) { report.RecentGenres, err = s.stats.RecentGenres(userID, 10); return })

	switch period {
	case WindowWeek:
		from := nowUTC.AddDate(0, 0, -weekDays)
		g.Go(func() error {
			rows, err := s.stats.DayBuckets(userID, from, nowUTC, s.offsetMinutes())
			if err != nil {
				return err
			}
			for _, row := range rows {
				report.PeriodStats = append(report.PeriodStats, model.PeriodStat{
					Date:           row.Date,
					TotalDuration:  row.TotalDuration,
					WatchedCount:   row.TotalContent,
					CompletedCount: row.TotalCompleted,
					CompletionRate: rate(row.TotalCompleted, row.TotalContent),
				})
			}
			return nil
		})
	case WindowMonth:
		from := nowUTC.AddDate(0, -1, 0)
		g.Go(func() error {
			rows, err := s.stats.WeekStats(userID, from, nowUTC, s.offsetMinutes())
			if err != nil {
				return err
			}
			for _, row := range rows {
				report.PeriodStats = append(report.PeriodStats, model.PeriodStat{
					Week:           row.Week,
					Year:           row.Year,
					TotalDuration:  row.TotalDuration,
					WatchedCount:   row.WatchedCount,
					CompletedCount: row.CompletedCount,
					CompletionRate: rate(row.CompletedCount, row.WatchedCount),
				})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if report.RecentGenres == nil {
		report.RecentGenres = []model.GenreCount{}
	}
	return report, nil
}

func (s *StatsService) offsetMinutes() int {
	return int(s.offset / time.Minute)
}

func (s *StatsService) timezoneLabel() string {
	hours := int(s.offset / time.Hour)
	if hours >= 0 {
		return fmt.Sprintf("UTC+%d", hours)
	}
	return fmt.Sprintf("UTC%d", hours)
}

// truncateDay 截断到当日零点（对已做过偏移的"本地"时间使用）
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// rate 完成率，整数百分比，分母为零时返回 0 而不是 NaN
func rate(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(completed)/float64(total)*100 + 0.5)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
