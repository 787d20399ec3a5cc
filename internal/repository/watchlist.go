package repository

import (
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add 加入待看清单，返回实际插入的行数（已存在时为 0，不覆盖）
func (r *WatchlistRepository) Add(w *model.WatchlistEntry) (int64, error) {
	if w.AddedAt.IsZero() {
		w.AddedAt = time.Now()
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(w)
	return result.RowsAffected, result.Error
}

// Exists 检查是否已在待看清单
func (r *WatchlistRepository) Exists(userID, itemID int, itemType string) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchlistEntry{}).
		Where("user_id = ? AND item_id = ? AND item_type = ?", userID, itemID, itemType).
		Count(&count).Error
	return count > 0, err
}

// Remove 从待看清单移除
func (r *WatchlistRepository) Remove(userID, itemID int) (int64, error) {
	result := r.db.Where("user_id = ? AND item_id = ?", userID, itemID).Delete(&model.WatchlistEntry{})
	return result.RowsAffected, result.Error
}

// ListByUser 获取待看清单，最近添加在前
func (r *WatchlistRepository) ListByUser(userID int) ([]*model.WatchlistEntry, error) {
	var entries []*model.WatchlistEntry
	err := r.db.Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&entries).Error
	return entries, err
}

// CountByUser 统计待看清单数量
func (r *WatchlistRepository) CountByUser(userID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.WatchlistEntry{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Clear 清空待看清单
func (r *WatchlistRepository) Clear(userID int) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.WatchlistEntry{}).Error
}
