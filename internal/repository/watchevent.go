package repository

import (
	"errors"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchEventRepository struct {
	db *gorm.DB
}

func NewWatchEventRepository(db *gorm.DB) *WatchEventRepository {
	return &WatchEventRepository{db: db}
}

// Upsert 原子写入观影进度
// 播放器每隔几秒上报一次，并发的同键请求必须落在同一行上，
// 所以这里只发一条 INSERT ... ON CONFLICT DO UPDATE，绝不做先查后写
func (r *WatchEventRepository) Upsert(ev *model.WatchEvent) error {
	return r.db.Clauses(clause.OnConflict{
		OnConstraint: "uq_watch_events_key",
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "poster", "backdrop", "genres", "total_episodes",
			"watched_seconds", "total_seconds", "progress_percent", "watched_at",
		}),
	}).Create(ev).Error
}

// ListByUser 获取用户全部观影记录，最近观看在前
func (r *WatchEventRepository) ListByUser(userID int) ([]model.WatchEvent, error) {
	var events []model.WatchEvent
	err := r.db.Where("user_id = ?", userID).
		Order("watched_at DESC").
		Find(&events).Error
	return events, err
}

// FindByID 按记录 ID 查找，未找到返回 nil
func (r *WatchEventRepository) FindByID(userID, id int) (*model.WatchEvent, error) {
	var ev model.WatchEvent
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// FindEpisode 查找某一集的进度，未找到返回 nil（续播场景不算错误）
func (r *WatchEventRepository) FindEpisode(userID, contentID, season, episode int) (*model.WatchEvent, error) {
	var ev model.WatchEvent
	err := r.db.Where(
		"user_id = ? AND content_type = ? AND content_id = ? AND season = ? AND episode = ?",
		userID, model.ContentTypeTV, contentID, season, episode,
	).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// FindMovie 查找电影进度，未找到返回 nil
func (r *WatchEventRepository) FindMovie(userID, contentID int) (*model.WatchEvent, error) {
	var ev model.WatchEvent
	err := r.db.Where(
		"user_id = ? AND content_type = ? AND content_id = ?",
		userID, model.ContentTypeMovie, contentID,
	).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListSeries 获取一部剧的全部分集记录，按（季, 集）升序
func (r *WatchEventRepository) ListSeries(userID, contentID int) ([]model.WatchEvent, error) {
	var events []model.WatchEvent
	err := r.db.Where(
		"user_id = ? AND content_type = ? AND content_id = ?",
		userID, model.ContentTypeTV, contentID,
	).Order("season ASC, episode ASC").
		Find(&events).Error
	return events, err
}

// DeleteByID 删除单条记录
func (r *WatchEventRepository) DeleteByID(userID, id int) error {
	return r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&model.WatchEvent{}).Error
}

// DeleteSeries 删除一部剧的全部分集记录
// 用户把剧从"最近观看"移除时，预期是整部剧的进度都消失，这是产品语义
func (r *WatchEventRepository) DeleteSeries(userID, contentID int) error {
	return r.db.Where(
		"user_id = ? AND content_type = ? AND content_id = ?",
		userID, model.ContentTypeTV, contentID,
	).Delete(&model.WatchEvent{}).Error
}

// DeleteAll 清空用户观影历史
func (r *WatchEventRepository) DeleteAll(userID int) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.WatchEvent{}).Error
}

// CountByUser 统计用户观影记录数量
func (r *WatchEventRepository) CountByUser(userID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.WatchEvent{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
