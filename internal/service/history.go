package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/user/cinelog/internal/model"
)

// ErrNotFound 请求的记录不存在
var ErrNotFound = errors.New("记录不存在")

// WatchEventStore 历史服务依赖的观影记录存储
type WatchEventStore interface {
	ListByUser(userID int) ([]model.WatchEvent, error)
	FindByID(userID, id int) (*model.WatchEvent, error)
	FindEpisode(userID, contentID, season, episode int) (*model.WatchEvent, error)
	FindMovie(userID, contentID int) (*model.WatchEvent, error)
	ListSeries(userID, contentID int) ([]model.WatchEvent, error)
	DeleteByID(userID, id int) error
	DeleteSeries(userID, contentID int) error
	DeleteAll(userID int) error
}

// HistoryService 历史去重与续播服务
// 把原始的逐集事件日志整理成"最近观看"视图：每个内容一行，剧集取最近看的一集
type HistoryService struct {
	events WatchEventStore
}

func NewHistoryService(events WatchEventStore) *HistoryService {
	return &HistoryService{events: events}
}

// List 去重后的观影历史，最近观看在前
func (s *HistoryService) List(userID int) ([]model.HistoryEntry, error) {
	all, err := s.events.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	// 按 content_id 去重，保留 watched_at 最新的一条
	// ListByUser 已按时间倒序，所以首次出现的就是最新的
	seen := make(map[int]model.WatchEvent)
	order := make([]int, 0, len(all))
	for _, ev := range all {
		if _, ok := seen[ev.ContentID]; !ok {
			seen[ev.ContentID] = ev
			order = append(order, ev.ContentID)
		}
	}

	entries := make([]model.HistoryEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, toHistoryEntry(seen[id]))
	}

	// 去重后重新按时间倒序（防御性排序，输入顺序改变时结果依旧正确）
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WatchedAt.After(entries[j].WatchedAt)
	})

	return entries, nil
}

// toHistoryEntry 生成展示条目，进度不信任存储值而是重新计算
func toHistoryEntry(ev model.WatchEvent) model.HistoryEntry {
	return model.HistoryEntry{
		ID:              ev.ID,
		ContentType:     ev.ContentType,
		ContentID:       ev.ContentID,
		Season:          ev.Season,
		Episode:         ev.Episode,
		Title:           ev.Title,
		Poster:          ev.Poster,
		Backdrop:        ev.Backdrop,
		Genres:          ev.Genres,
		WatchedSeconds:  ev.WatchedSeconds,
		TotalSeconds:    ev.TotalSeconds,
		ProgressPercent: fmt.Sprintf("%.1f", model.Progress(ev.WatchedSeconds, ev.TotalSeconds)),
		WatchedAt:       ev.WatchedAt,
	}
}

// EpisodeProgress 单集进度，未观看时返回零值结构而不是错误
func (s *HistoryService) EpisodeProgress(userID, contentID, season, episode int) (*model.EpisodeProgress, error) {
	ev, err := s.events.FindEpisode(userID, contentID, season, episode)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return &model.EpisodeProgress{
			ContentID: contentID,
			Season:    season,
			Episode:   episode,
		}, nil
	}
	watchedAt := ev.WatchedAt
	return &model.EpisodeProgress{
		ContentID:       contentID,
		Season:          season,
		Episode:         episode,
		WatchedSeconds:  ev.WatchedSeconds,
		TotalSeconds:    ev.TotalSeconds,
		ProgressPercent: ev.ProgressPercent,
		Completed:       ev.ProgressPercent >= model.CompletionThreshold,
		WatchedAt:       &watchedAt,
	}, nil
}

// MovieProgress 电影进度，未观看时返回零值结构
func (s *HistoryService) MovieProgress(userID, contentID int) (*model.MovieProgress, error) {
	ev, err := s.events.FindMovie(userID, contentID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return &model.MovieProgress{ContentID: contentID}, nil
	}
	return &model.MovieProgress{
		ContentID:      contentID,
		WatchedSeconds: ev.WatchedSeconds,
		TotalSeconds:   ev.TotalSeconds,
		Progress:       model.Progress(ev.WatchedSeconds, ev.TotalSeconds),
		Completed:      ev.TotalSeconds > 0 && ev.WatchedSeconds >= ev.TotalSeconds,
	}, nil
}

// SeriesOverview 剧集总览：逐集进度加聚合进度
// "完成"要求每集进度都达标且已看集数等于总集数；总集数未知时不判定完成
func (s *HistoryService) SeriesOverview(userID, contentID int) (*model.SeriesOverview, error) {
	episodes, err := s.events.ListSeries(userID, contentID)
	if err != nil {
		return nil, err
	}

	overview := &model.SeriesOverview{
		ContentID: contentID,
		Episodes:  []model.EpisodeStatus{},
	}
	if len(episodes) == 0 {
		return overview, nil
	}

	overview.HasWatched = true
	overview.Title = episodes[0].Title
	overview.Poster = episodes[0].Poster
	overview.EpisodesWatched = len(episodes)

	allDone := true
	var totalEpisodes int
	for _, ev := range episodes {
		p := model.Progress(ev.WatchedSeconds, ev.TotalSeconds)
		overview.Episodes = append(overview.Episodes, model.EpisodeStatus{
			Season:          derefInt(ev.Season),
			Episode:         derefInt(ev.Episode),
			Title:           ev.Title,
			WatchedSeconds:  ev.WatchedSeconds,
			TotalSeconds:    ev.TotalSeconds,
			ProgressPercent: p,
			Completed:       p >= model.CompletionThreshold,
			WatchedAt:       ev.WatchedAt,
		})
		overview.TotalWatchedSeconds += ev.WatchedSeconds
		overview.TotalSeconds += ev.TotalSeconds
		if p < model.CompletionThreshold {
			allDone = false
		}
		if ev.TotalEpisodes != nil && *ev.TotalEpisodes > totalEpisodes {
			totalEpisodes = *ev.TotalEpisodes
		}
	}

	overview.OverallProgress = model.Progress(overview.TotalWatchedSeconds, overview.TotalSeconds)
	overview.Completed = allDone && totalEpisodes > 0 && len(episodes) == totalEpisodes

	return overview, nil
}

// Delete 删除一条历史
// 电影只删那一行；剧集删除整部剧的全部分集进度（产品语义，见 DeleteSeries）
func (s *HistoryService) Delete(userID, entryID int) error {
	entry, err := s.events.FindByID(userID, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrNotFound
	}

	if entry.ContentType == model.ContentTypeTV {
		return s.events.DeleteSeries(userID, entry.ContentID)
	}
	return s.events.DeleteByID(userID, entryID)
}

// Clear 清空观影历史
func (s *HistoryService) Clear(userID int) error {
	return s.events.DeleteAll(userID)
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
