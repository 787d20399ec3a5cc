package service

import (
	"errors"
	"testing"
	"time"

	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/repository"
)

// fakeStatsStore 可配置返回值的统计存储
type fakeStatsStore struct {
	events      int
	inProgress  int
	completed   int
	watched     float64
	movies      int
	series      int
	summary     *repository.RangeSummaryRow
	dayRows     []repository.DayBucketRow
	weekRows    []repository.WeekStatRow
	recent      []model.WatchEvent
	inRange     []model.WatchEvent
	reportCalls int
}

func (f *fakeStatsStore) CountEvents(userID int) (int, error) {
	f.reportCalls++
	return f.events, nil
}
func (f *fakeStatsStore) CountInProgress(userID int) (int, error) { return f.inProgress, nil }
func (f *fakeStatsStore) CountCompleted(userID int) (int, error)  { return f.completed, nil }
func (f *fakeStatsStore) SumWatchedSeconds(userID int) (float64, error) {
	return f.watched, nil
}
func (f *fakeStatsStore) CountCompletedMovies(userID int) (int, error) { return f.movies, nil }
func (f *fakeStatsStore) CountCompletedSeries(userID int) (int, error) { return f.series, nil }
func (f *fakeStatsStore) TopGenres(userID, limit int) ([]model.GenreCount, error) {
	return []model.GenreCount{{Genre: "剧情", Count: 5}}, nil
}
func (f *fakeStatsStore) TopGenresInRange(userID int, from, to time.Time, limit int) ([]model.GenreCount, error) {
	return nil, nil
}
func (f *fakeStatsStore) RecentGenres(userID, events int) ([]model.GenreCount, error) {
	return nil, nil
}
func (f *fakeStatsStore) ContentTypeDistribution(userID int) ([]model.TypeCount, error) {
	return nil, nil
}
func (f *fakeStatsStore) RangeSummary(userID int, from, to time.Time) (*repository.RangeSummaryRow, error) {
	if f.summary != nil {
		return f.summary, nil
	}
	return &repository.RangeSummaryRow{}, nil
}
func (f *fakeStatsStore) DayBuckets(userID int, from, to time.Time, offsetMinutes int) ([]repository.DayBucketRow, error) {
	return f.dayRows, nil
}
func (f *fakeStatsStore) WeekStats(userID int, from, to time.Time, offsetMinutes int) ([]repository.WeekStatRow, error) {
	return f.weekRows, nil
}
func (f *fakeStatsStore) TimeOfDay(userID int, from, to time.Time, offsetMinutes int) ([]model.TimeOfDayCount, error) {
	return nil, nil
}
func (f *fakeStatsStore) ListRecent(userID, limit int) ([]model.WatchEvent, error) {
	return f.recent, nil
}
func (f *fakeStatsStore) ListInRange(userID int, from, to time.Time) ([]model.WatchEvent, error) {
	return f.inRange, nil
}

type fakeCounter struct{ count int64 }

func (f *fakeCounter) CountByUser(userID int) (int64, error) { return f.count, nil }

func newTestStatsService(store *fakeStatsStore, now time.Time) *StatsService {
	svc := NewStatsService(store, &fakeCounter{count: 3}, &fakeCounter{count: 2}, 7*time.Hour)
	svc.now = func() time.Time { return now }
	return svc
}

func TestReportRejectsUnknownWindow(t *testing.T) {
	svc := newTestStatsService(&fakeStatsStore{}, time.Now())
	_, err := svc.Report(1, "year")
	if err == nil {
		t.Fatal("未知窗口类型应当报错")
	}
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("期望 ValidationError，实际 %T", err)
	}
}

func TestReportWeekZeroFillsSevenDays(t *testing.T) {
	// UTC 2025-06-01 20:00 在 UTC+7 已是 6 月 2 日凌晨 3 点
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	store := &fakeStatsStore{
		dayRows: []repository.DayBucketRow{
			{Date: "2025-05-30", TotalDuration: 3600, TotalContent: 3, TotalCompleted: 1},
		},
	}
	svc := newTestStatsService(store, now)

	report, err := svc.Report(1, WindowWeek)
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}

	days := report.Period.Days
	if len(days) != 7 {
		t.Fatalf("周报表必须是 7 个日桶，实际 %d", len(days))
	}
	if days[0].Date != "2025-05-27" {
		t.Errorf("首日应为 2025-05-27（本地），实际 %s", days[0].Date)
	}
	if days[6].Date != "2025-06-02" {
		t.Errorf("末日应为本地今天 2025-06-02，实际 %s", days[6].Date)
	}
	if days[6].DayOfWeek != "周一" {
		t.Errorf("2025-06-02 是周一，实际 %s", days[6].DayOfWeek)
	}

	// 没有活动的日子输出零桶
	if days[0].HasActivity || days[0].TotalContent != 0 || days[0].Items == nil {
		t.Errorf("空桶应补零: %+v", days[0])
	}

	// 有活动的日子合并聚合行
	found := false
	for _, d := range days {
		if d.Date == "2025-05-30" {
			found = true
			if !d.HasActivity || d.TotalContent != 3 || d.CompletionRate != 33 {
				t.Errorf("活动桶错误: %+v", d)
			}
		}
	}
	if !found {
		t.Error("2025-05-30 桶缺失")
	}
}

func TestReportWeekGroupsItemsByLocalDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	store := &fakeStatsStore{
		inRange: []model.WatchEvent{
			// UTC 5 月 31 日 19 点，UTC+7 下已是 6 月 1 日
			{Title: "跨日", WatchedAt: time.Date(2025, 5, 31, 19, 0, 0, 0, time.UTC)},
		},
	}
	svc := newTestStatsService(store, now)

	report, err := svc.Report(1, WindowWeek)
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	for _, d := range report.Period.Days {
		if d.Date == "2025-06-01" {
			if len(d.Items) != 1 || d.Items[0].Title != "跨日" {
				t.Errorf("条目应落在本地 6 月 1 日: %+v", d.Items)
			}
			return
		}
	}
	t.Error("没有找到 2025-06-01 桶")
}

func TestReportMonthHasFourWeekBuckets(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	svc := newTestStatsService(&fakeStatsStore{}, now)

	report, err := svc.Report(1, WindowMonth)
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	weeks := report.Period.Weeks
	if len(weeks) != 4 {
		t.Fatalf("月报表必须是 4 个周桶，实际 %d", len(weeks))
	}
	for i, w := range weeks {
		if w.WeekNumber != i+1 {
			t.Errorf("周序号错误: %+v", w)
		}
	}
	// 最后一块以本地今天收尾
	if weeks[3].EndDate != "2025-06-02" {
		t.Errorf("末块结束日期应为 2025-06-02，实际 %s", weeks[3].EndDate)
	}
	// 4 块覆盖 28 个本地日
	if weeks[0].StartDate != "2025-05-06" {
		t.Errorf("首块开始日期应为 2025-05-06，实际 %s", weeks[0].StartDate)
	}
}

func TestReportOverallAddsMoviesAndSeries(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	store := &fakeStatsStore{events: 42, movies: 5, series: 2, watched: 8100}
	svc := newTestStatsService(store, now)

	report, err := svc.Report(1, WindowWeek)
	if err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	o := report.Overall
	if o.TotalContentWatched != 42 {
		t.Errorf("记录总数错误: %d", o.TotalContentWatched)
	}
	if o.TotalCompleted != 7 {
		t.Errorf("完成数应为电影+剧集 = 7，实际 %d", o.TotalCompleted)
	}
	if o.TotalFavorites != 3 || o.TotalWatchlist != 2 {
		t.Errorf("收藏/待看计数错误: %+v", o)
	}
	if o.FormattedWatchTime != "2h 15m" {
		t.Errorf("时长格式化错误: %s", o.FormattedWatchTime)
	}
	if report.Timezone != "UTC+7" {
		t.Errorf("时区标签错误: %s", report.Timezone)
	}
}

func TestReportCachesResult(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	store := &fakeStatsStore{}
	svc := newTestStatsService(store, now)

	if _, err := svc.Report(1, WindowWeek); err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	calls := store.reportCalls
	if _, err := svc.Report(1, WindowWeek); err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	if store.reportCalls != calls {
		t.Errorf("缓存期内的第二次请求不应再查库: %d -> %d", calls, store.reportCalls)
	}

	// 不同窗口是不同的缓存键
	if _, err := svc.Report(1, WindowMonth); err != nil {
		t.Fatalf("Report 失败: %v", err)
	}
	if store.reportCalls == calls {
		t.Error("不同窗口不应命中同一缓存")
	}
}

func TestWatchTimePeriods(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	t.Run("全量", func(t *testing.T) {
		store := &fakeStatsStore{events: 10, completed: 4, watched: 600}
		svc := newTestStatsService(store, now)
		report, err := svc.WatchTime(1, "")
		if err != nil {
			t.Fatalf("WatchTime 失败: %v", err)
		}
		if report.Period != "all-time" {
			t.Errorf("空 period 应标记为 all-time: %s", report.Period)
		}
		if report.TotalWatched != 10 || report.CompletedCount != 4 {
			t.Errorf("汇总错误: %+v", report)
		}
		if len(report.PeriodStats) != 0 {
			t.Errorf("全量模式不应有分桶: %+v", report.PeriodStats)
		}
	})

	t.Run("按周", func(t *testing.T) {
		store := &fakeStatsStore{
			dayRows: []repository.DayBucketRow{
				{Date: "2025-05-30", TotalDuration: 1200, TotalContent: 4, TotalCompleted: 3},
			},
		}
		svc := newTestStatsService(store, now)
		report, err := svc.WatchTime(1, WindowWeek)
		if err != nil {
			t.Fatalf("WatchTime 失败: %v", err)
		}
		if len(report.PeriodStats) != 1 {
			t.Fatalf("应有 1 行分桶: %+v", report.PeriodStats)
		}
		row := report.PeriodStats[0]
		if row.Date != "2025-05-30" || row.CompletionRate != 75 {
			t.Errorf("分桶行错误: %+v", row)
		}
	})

	t.Run("按月", func(t *testing.T) {
		store := &fakeStatsStore{
			weekRows: []repository.WeekStatRow{
				{Year: 2025, Week: 22, TotalDuration: 7200, WatchedCount: 6, CompletedCount: 2},
			},
		}
		svc := newTestStatsService(store, now)
		report, err := svc.WatchTime(1, WindowMonth)
		if err != nil {
			t.Fatalf("WatchTime 失败: %v", err)
		}
		row := report.PeriodStats[0]
		if row.Week != 22 || row.Year != 2025 || row.CompletionRate != 33 {
			t.Errorf("分桶行错误: %+v", row)
		}
	})

	t.Run("非法参数", func(t *testing.T) {
		svc := newTestStatsService(&fakeStatsStore{}, now)
		_, err := svc.WatchTime(1, "decade")
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("期望 ValidationError，实际 %v", err)
		}
	})
}

func TestBuildSummaryRounding(t *testing.T) {
	svc := newTestStatsService(&fakeStatsStore{}, time.Now())
	row := &repository.RangeSummaryRow{
		TotalDuration:  9000,
		TotalContent:   3,
		TotalCompleted: 2,
		AvgProgress:    66.666,
	}
	summary := svc.buildSummary(row, nil, nil, 7)

	if summary.CompletionRate != 67 {
		t.Errorf("完成率应四舍五入为 67，实际 %d", summary.CompletionRate)
	}
	if summary.AvgProgressPercent != 66.7 {
		t.Errorf("平均进度应保留一位小数 66.7，实际 %v", summary.AvgProgressPercent)
	}
	if summary.FormattedWatchTime != "2h 30m" {
		t.Errorf("时长格式化错误: %s", summary.FormattedWatchTime)
	}
	// 9000 秒 / 7 天 ≈ 21 分钟
	if summary.AvgWatchTimePerDay != "21m" {
		t.Errorf("日均时长错误: %s", summary.AvgWatchTimePerDay)
	}
}

func TestNegativeOffsetTimezoneLabel(t *testing.T) {
	svc := NewStatsService(&fakeStatsStore{}, &fakeCounter{}, &fakeCounter{}, -5*time.Hour)
	if got := svc.timezoneLabel(); got != "UTC-5" {
		t.Errorf("负偏移标签错误: %s", got)
	}
}
